// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"witter/internal/cache"
	"witter/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	FindByHandle(ctx context.Context, handle string) (*models.User, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
	EmailOwner(ctx context.Context, email string) (string, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, handle string) error
	SearchByUsername(ctx context.Context, query string) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Handle or email is already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByHandle is the display-path lookup: cached, and the cached copy is the
// serialized profile (no password hash). Auth paths use FindByHandle.
func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	var user models.User
	key := cache.UserKey(handle)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", handle)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByHandle returns the full row including the password hash, or
// (nil, nil) when the handle is unknown. Never cached.
func (r *userRepository) FindByHandle(ctx context.Context, handle string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) HandleExists(ctx context.Context, handle string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("handle = ?", handle).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// EmailOwner returns the handle that owns the given email, or "" when the
// address is unused.
func (r *userRepository) EmailOwner(ctx context.Context, email string) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", models.NewInternalError(err)
	}
	return user.Handle, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email is already in use")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.Handle)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, handle string) error {
	result := r.db.WithContext(ctx).Where("handle = ?", handle).Delete(&models.User{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User", handle)
	}
	cache.InvalidateUser(ctx, handle)
	return nil
}

// SearchByUsername matches usernames case-insensitively on a substring.
// Results keep insertion order so repeated searches are stable.
func (r *userRepository) SearchByUsername(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	like := "%" + strings.ToLower(query) + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE ?", like).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite phrasing for tests.
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
