// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"

	"witter/internal/cache"
	"witter/internal/models"

	"gorm.io/gorm"
)

// WeetRepository defines the interface for weet and reaction-edge operations.
type WeetRepository interface {
	Create(ctx context.Context, weet *models.Weet) error
	GetByID(ctx context.Context, id uint, viewer string) (*models.Weet, error)
	Exists(ctx context.Context, id uint) (bool, error)
	AuthorOf(ctx context.Context, id uint) (string, error)
	ListByAuthor(ctx context.Context, author, viewer string) ([]*models.Weet, error)
	ListReacted(ctx context.Context, kind models.ReactionKind, handle, viewer string) ([]*models.Weet, error)
	Feed(ctx context.Context, handle string) ([]*models.Weet, error)
	UpdateText(ctx context.Context, id uint, text string) error
	Delete(ctx context.Context, id uint) error
	React(ctx context.Context, kind models.ReactionKind, handle string, weetID uint) error
	Unreact(ctx context.Context, kind models.ReactionKind, handle string, weetID uint) error
	HasReacted(ctx context.Context, kind models.ReactionKind, handle string, weetID uint) (bool, error)
}

// weetRepository implements WeetRepository
type weetRepository struct {
	db *gorm.DB
}

// NewWeetRepository creates a new weet repository
func NewWeetRepository(db *gorm.DB) WeetRepository {
	return &weetRepository{db: db}
}

func (r *weetRepository) Create(ctx context.Context, weet *models.Weet) error {
	if err := r.db.WithContext(ctx).Create(weet).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyWeetDetails adds subqueries to fetch reaction counts and the viewer's
// reaction flags in a single query.
func (r *weetRepository) applyWeetDetails(db *gorm.DB, viewer string) *gorm.DB {
	selectQuery := "weets.*, " +
		"(SELECT COUNT(*) FROM reweets WHERE reweets.weet_id = weets.id) AS reweet_count, " +
		"(SELECT COUNT(*) FROM favorites WHERE favorites.weet_id = weets.id) AS favorite_count, " +
		"(SELECT COUNT(*) FROM tabs WHERE tabs.weet_id = weets.id) AS tab_count"

	if viewer != "" {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM reweets WHERE reweets.weet_id = weets.id AND reweets.user_id = ?) AS reweeted"+
			", EXISTS(SELECT 1 FROM favorites WHERE favorites.weet_id = weets.id AND favorites.user_id = ?) AS favorited"+
			", EXISTS(SELECT 1 FROM tabs WHERE tabs.weet_id = weets.id AND tabs.user_id = ?) AS tabbed",
			viewer, viewer, viewer)
	}

	return db.Select(selectQuery + ", false AS reweeted, false AS favorited, false AS tabbed")
}

func (r *weetRepository) GetByID(ctx context.Context, id uint, viewer string) (*models.Weet, error) {
	var weet models.Weet
	err := r.applyWeetDetails(r.db.WithContext(ctx), viewer).
		Preload("User").
		First(&weet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Weet", id)
		}
		return nil, models.NewInternalError(err)
	}
	weet.Decorate(nil)
	return &weet, nil
}

func (r *weetRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Weet{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// AuthorOf resolves a weet's immutable author handle. A small cached lookup
// since the authorship gate runs on every weet mutation.
func (r *weetRepository) AuthorOf(ctx context.Context, id uint) (string, error) {
	var author string
	key := cache.WeetKey(id)

	err := cache.Aside(ctx, key, &author, cache.WeetTTL, func() error {
		var weet models.Weet
		if err := r.db.WithContext(ctx).Select("author").First(&weet, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Weet", id)
			}
			return models.NewInternalError(err)
		}
		author = weet.Author
		return nil
	})
	if err != nil {
		return "", err
	}
	return author, nil
}

func (r *weetRepository) ListByAuthor(ctx context.Context, author, viewer string) ([]*models.Weet, error) {
	var weets []*models.Weet
	err := r.applyWeetDetails(r.db.WithContext(ctx), viewer).
		Preload("User").
		Where("author = ?", author).
		Order("time_date DESC").
		Find(&weets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	decorateWeets(weets)
	return weets, nil
}

// ListReacted returns the weets the given user has reacted to with the given
// kind, newest weet first.
func (r *weetRepository) ListReacted(ctx context.Context, kind models.ReactionKind, handle, viewer string) ([]*models.Weet, error) {
	var weets []*models.Weet
	join := fmt.Sprintf("JOIN %s e ON e.weet_id = weets.id", kind.Table())
	err := r.applyWeetDetails(r.db.WithContext(ctx), viewer).
		Preload("User").
		Joins(join).
		Where("e.user_id = ?", handle).
		Order("weets.time_date DESC").
		Find(&weets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	decorateWeets(weets)
	return weets, nil
}

// Feed returns the user's own weets plus the weets of everyone they follow,
// newest first. With no follows the subquery matches nothing and the result
// degenerates to the user's own weets.
func (r *weetRepository) Feed(ctx context.Context, handle string) ([]*models.Weet, error) {
	var weets []*models.Weet
	err := r.applyWeetDetails(r.db.WithContext(ctx), handle).
		Preload("User").
		Where("author = ? OR author IN (SELECT followee_id FROM followers WHERE follower_id = ?)", handle, handle).
		Order("time_date DESC").
		Find(&weets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	decorateWeets(weets)
	return weets, nil
}

// UpdateText changes a weet's body. Author and timestamp never change.
func (r *weetRepository) UpdateText(ctx context.Context, id uint, text string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Weet{}).
		Where("id = ?", id).
		Update("weet", text)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Weet", id)
	}
	return nil
}

func (r *weetRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Weet{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Weet", id)
	}
	cache.InvalidateWeet(ctx, id)
	return nil
}

// React inserts a reaction edge. Each (user, weet) pair carries at most one
// edge per kind; redundant adds are conflicts, not no-ops.
func (r *weetRepository) React(ctx context.Context, kind models.ReactionKind, handle string, weetID uint) error {
	edge := kind.NewEdge(handle, weetID)
	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(fmt.Sprintf("You have already %s this weet", kind.Past()))
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Unreact removes a reaction edge; removing an absent edge is a conflict.
func (r *weetRepository) Unreact(ctx context.Context, kind models.ReactionKind, handle string, weetID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND weet_id = ?", handle, weetID).
		Delete(kind.NewEdge("", 0))
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError(fmt.Sprintf("You have not %s this weet", kind.Past()))
	}
	return nil
}

func (r *weetRepository) HasReacted(ctx context.Context, kind models.ReactionKind, handle string, weetID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("user_id = ? AND weet_id = ?", handle, weetID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func decorateWeets(weets []*models.Weet) {
	for _, w := range weets {
		w.Decorate(nil)
	}
}
