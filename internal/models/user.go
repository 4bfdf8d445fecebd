// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account. Handle is the public identifier every other
// table references; ID stays internal.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	Handle          string    `gorm:"uniqueIndex;not null" json:"handle"`
	Username        string    `gorm:"not null" json:"username"`
	Password        string    `gorm:"not null" json:"-"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	UserDescription string    `gorm:"type:text" json:"user_description"`
	ProfileImage    string    `json:"profile_image"`
	BannerImage     string    `json:"banner_image"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`

	// FollowStatus is viewer-relative and only attached when a result was
	// requested on behalf of a signed-in viewer (computed, not persisted).
	FollowStatus *FollowStatus `gorm:"-" json:"followStatus,omitempty"`
}

// FollowStatus holds the two directed-edge flags relative to a viewer.
type FollowStatus struct {
	// IsFollower: the viewer follows this user.
	IsFollower bool `json:"isFollower"`
	// IsFollowee: this user follows the viewer.
	IsFollowee bool `json:"isFollowee"`
}

// AuthorInfo is the profile snippet embedded in enriched weet results.
type AuthorInfo struct {
	Username string `json:"username"`
	Handle   string `json:"handle"`
}

// Follow is a directed follower -> followee edge. The composite unique
// index is the authority on duplicate follows; application pre-checks only
// shape the error message.
type Follow struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	FollowerHandle string    `gorm:"column:follower_id;not null;uniqueIndex:idx_followers_edge" json:"follower_id"`
	FolloweeHandle string    `gorm:"column:followee_id;not null;uniqueIndex:idx_followers_edge" json:"followee_id"`
	CreatedAt      time.Time `json:"-"`

	Follower User `gorm:"foreignKey:FollowerHandle;references:Handle;constraint:OnDelete:CASCADE" json:"-"`
	Followee User `gorm:"foreignKey:FolloweeHandle;references:Handle;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the original schema's table name.
func (Follow) TableName() string {
	return "followers"
}
