package models

import (
	"time"
)

// Weet represents a single post. Author and ID are immutable; only the text
// body may change after creation.
type Weet struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"column:weet;type:text;not null" json:"weet"`
	Author   string    `gorm:"not null;index" json:"author"`
	TimeDate time.Time `gorm:"column:time_date;autoCreateTime" json:"time_date"`

	User User `gorm:"foreignKey:Author;references:Handle;constraint:OnDelete:CASCADE" json:"-"`

	// Computed at query time via SELECT subqueries (see repository).
	ReweetCount   int  `gorm:"->" json:"-"`
	FavoriteCount int  `gorm:"->" json:"-"`
	TabCount      int  `gorm:"->" json:"-"`
	Reweeted      bool `gorm:"->" json:"-"`
	Favorited     bool `gorm:"->" json:"-"`
	Tabbed        bool `gorm:"->" json:"-"`

	// Shaped output, populated by Decorate.
	Stats    WeetStats  `gorm:"-" json:"stats"`
	Checks   WeetChecks `gorm:"-" json:"checks"`
	UserInfo AuthorInfo `gorm:"-" json:"userInfo"`
	Date     string     `gorm:"-" json:"date"`
	Time     string     `gorm:"-" json:"time"`
}

// WeetStats aggregates reaction-edge counts for one weet.
type WeetStats struct {
	Reweets   int `json:"reweets"`
	Favorites int `json:"favorites"`
	Tabs      int `json:"tabs"`
}

// WeetChecks holds the viewer-relative reaction flags.
type WeetChecks struct {
	Reweeted  bool `json:"reweeted"`
	Favorited bool `json:"favorited"`
	Tabbed    bool `json:"tabbed"`
}

const (
	weetDateFormat = "January 2, 2006"
	weetTimeFormat = "3:04 PM"
)

// Decorate copies the flat computed columns into the nested output shapes
// and derives the display date/time strings from the creation timestamp.
// author may be nil when the caller did not preload the author row.
func (w *Weet) Decorate(author *User) {
	w.Stats = WeetStats{
		Reweets:   w.ReweetCount,
		Favorites: w.FavoriteCount,
		Tabs:      w.TabCount,
	}
	w.Checks = WeetChecks{
		Reweeted:  w.Reweeted,
		Favorited: w.Favorited,
		Tabbed:    w.Tabbed,
	}
	if author != nil {
		w.UserInfo = AuthorInfo{
			Username: author.Username,
			Handle:   author.Handle,
		}
	} else {
		w.UserInfo = AuthorInfo{
			Username: w.User.Username,
			Handle:   w.User.Handle,
		}
	}
	w.Date = w.TimeDate.Format(weetDateFormat)
	w.Time = w.TimeDate.Format(weetTimeFormat)
}
