package models

import (
	"time"
)

// ReactionKind selects one of the three per-user-per-weet reaction tables.
// All three share the same shape; each allows at most one edge per
// (user, weet) pair, enforced by a composite unique index.
type ReactionKind string

const (
	ReactionReweet   ReactionKind = "reweet"
	ReactionFavorite ReactionKind = "favorite"
	ReactionTab      ReactionKind = "tab"
)

// Table returns the table holding edges of this kind.
func (k ReactionKind) Table() string {
	switch k {
	case ReactionReweet:
		return "reweets"
	case ReactionFavorite:
		return "favorites"
	case ReactionTab:
		return "tabs"
	}
	return ""
}

// Past returns the past-tense verb for this kind, for user-facing messages.
func (k ReactionKind) Past() string {
	switch k {
	case ReactionReweet:
		return "reweeted"
	case ReactionFavorite:
		return "favorited"
	case ReactionTab:
		return "tabbed"
	}
	return ""
}

// NewEdge builds an unsaved edge row of this kind.
func (k ReactionKind) NewEdge(userHandle string, weetID uint) interface{} {
	switch k {
	case ReactionReweet:
		return &Reweet{UserHandle: userHandle, WeetID: weetID}
	case ReactionFavorite:
		return &Favorite{UserHandle: userHandle, WeetID: weetID}
	case ReactionTab:
		return &Tab{UserHandle: userHandle, WeetID: weetID}
	}
	return nil
}

// Reweet is a repost edge.
type Reweet struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserHandle string    `gorm:"column:user_id;not null;uniqueIndex:idx_reweets_edge" json:"user_id"`
	WeetID     uint      `gorm:"column:weet_id;not null;uniqueIndex:idx_reweets_edge" json:"weet_id"`
	TimeDate   time.Time `gorm:"column:time_date;autoCreateTime" json:"time_date"`

	User User `gorm:"foreignKey:UserHandle;references:Handle;constraint:OnDelete:CASCADE" json:"-"`
	Weet Weet `gorm:"foreignKey:WeetID;constraint:OnDelete:CASCADE" json:"-"`
}

// Favorite is a like edge.
type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserHandle string    `gorm:"column:user_id;not null;uniqueIndex:idx_favorites_edge" json:"user_id"`
	WeetID     uint      `gorm:"column:weet_id;not null;uniqueIndex:idx_favorites_edge" json:"weet_id"`
	TimeDate   time.Time `gorm:"column:time_date;autoCreateTime" json:"time_date"`

	User User `gorm:"foreignKey:UserHandle;references:Handle;constraint:OnDelete:CASCADE" json:"-"`
	Weet Weet `gorm:"foreignKey:WeetID;constraint:OnDelete:CASCADE" json:"-"`
}

// Tab is a bookmark edge.
type Tab struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserHandle string    `gorm:"column:user_id;not null;uniqueIndex:idx_tabs_edge" json:"user_id"`
	WeetID     uint      `gorm:"column:weet_id;not null;uniqueIndex:idx_tabs_edge" json:"weet_id"`
	TimeDate   time.Time `gorm:"column:time_date;autoCreateTime" json:"time_date"`

	User User `gorm:"foreignKey:UserHandle;references:Handle;constraint:OnDelete:CASCADE" json:"-"`
	Weet Weet `gorm:"foreignKey:WeetID;constraint:OnDelete:CASCADE" json:"-"`
}
