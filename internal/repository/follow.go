// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"witter/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow-edge operations.
type FollowRepository interface {
	Create(ctx context.Context, follower, followee string) error
	Delete(ctx context.Context, follower, followee string) error
	Exists(ctx context.Context, follower, followee string) (bool, error)
	GetFollowers(ctx context.Context, handle string) ([]models.User, error)
	GetFollowing(ctx context.Context, handle string) ([]models.User, error)
	Status(ctx context.Context, viewer, target string) (*models.FollowStatus, error)
	StatusBatch(ctx context.Context, viewer string, handles []string) (map[string]models.FollowStatus, error)
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the directed edge. The composite unique index is the
// authority on duplicates; a violation surfaces as the same conflict the
// pre-check in the service layer reports.
func (r *followRepository) Create(ctx context.Context, follower, followee string) error {
	edge := models.Follow{FollowerHandle: follower, FolloweeHandle: followee}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("You are already following this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, follower, followee string) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", follower, followee).
		Delete(&models.Follow{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("You are not following this user")
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, follower, followee string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", follower, followee).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// GetFollowers returns the accounts following handle, oldest edge first so
// the listing order matches edge insertion.
func (r *followRepository) GetFollowers(ctx context.Context, handle string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN followers f ON users.handle = f.follower_id").
		Where("f.followee_id = ?", handle).
		Order("f.id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// GetFollowing returns the accounts handle follows, oldest edge first.
func (r *followRepository) GetFollowing(ctx context.Context, handle string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN followers f ON users.handle = f.followee_id").
		Where("f.follower_id = ?", handle).
		Order("f.id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Status resolves the two directed edges between viewer and target.
func (r *followRepository) Status(ctx context.Context, viewer, target string) (*models.FollowStatus, error) {
	isFollower, err := r.Exists(ctx, viewer, target)
	if err != nil {
		return nil, err
	}
	isFollowee, err := r.Exists(ctx, target, viewer)
	if err != nil {
		return nil, err
	}
	return &models.FollowStatus{IsFollower: isFollower, IsFollowee: isFollowee}, nil
}

// StatusBatch resolves follow status for many targets with two IN queries
// instead of two queries per row.
func (r *followRepository) StatusBatch(ctx context.Context, viewer string, handles []string) (map[string]models.FollowStatus, error) {
	statuses := make(map[string]models.FollowStatus, len(handles))
	if len(handles) == 0 {
		return statuses, nil
	}

	var followees []string
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id IN ?", viewer, handles).
		Pluck("followee_id", &followees).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var followers []string
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ? AND follower_id IN ?", viewer, handles).
		Pluck("follower_id", &followers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, h := range handles {
		statuses[h] = models.FollowStatus{}
	}
	for _, h := range followees {
		s := statuses[h]
		s.IsFollower = true
		statuses[h] = s
	}
	for _, h := range followers {
		s := statuses[h]
		s.IsFollowee = true
		statuses[h] = s
	}
	return statuses, nil
}
