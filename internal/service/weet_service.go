package service

import (
	"context"
	"strings"

	"witter/internal/models"
	"witter/internal/repository"
)

const maxWeetLen = 280

// WeetService provides weet and reaction business logic.
type WeetService struct {
	weetRepo repository.WeetRepository
	userRepo repository.UserRepository
}

// NewWeetService returns a new WeetService.
func NewWeetService(weetRepo repository.WeetRepository, userRepo repository.UserRepository) *WeetService {
	return &WeetService{
		weetRepo: weetRepo,
		userRepo: userRepo,
	}
}

func validateWeetText(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("Weet text cannot be blank")
	}
	if len(text) > maxWeetLen {
		return models.NewValidationError("Weet text cannot exceed 280 characters")
	}
	return nil
}

// Get returns one enriched weet with the viewer's reaction flags.
func (s *WeetService) Get(ctx context.Context, id uint, viewer string) (*models.Weet, error) {
	return s.weetRepo.GetByID(ctx, id, viewer)
}

// Create posts a new weet for author.
func (s *WeetService) Create(ctx context.Context, author, text string) (*models.Weet, error) {
	if err := validateWeetText(text); err != nil {
		return nil, err
	}
	if exists, err := s.userRepo.HandleExists(ctx, author); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", author)
	}

	weet := &models.Weet{Text: text, Author: author}
	if err := s.weetRepo.Create(ctx, weet); err != nil {
		return nil, err
	}
	return s.weetRepo.GetByID(ctx, weet.ID, author)
}

// Edit replaces a weet's text. Author and timestamp are immutable.
func (s *WeetService) Edit(ctx context.Context, id uint, text, viewer string) (*models.Weet, error) {
	if err := validateWeetText(text); err != nil {
		return nil, err
	}
	if err := s.weetRepo.UpdateText(ctx, id, text); err != nil {
		return nil, err
	}
	return s.weetRepo.GetByID(ctx, id, viewer)
}

// Delete removes a weet; its reaction edges cascade at the store.
func (s *WeetService) Delete(ctx context.Context, id uint) error {
	return s.weetRepo.Delete(ctx, id)
}

// AuthorOf resolves the weet's author handle for the authorship gate.
func (s *WeetService) AuthorOf(ctx context.Context, id uint) (string, error) {
	return s.weetRepo.AuthorOf(ctx, id)
}

// GetWeets returns handle's authored weets, newest first.
func (s *WeetService) GetWeets(ctx context.Context, handle, viewer string) ([]*models.Weet, error) {
	if exists, err := s.userRepo.HandleExists(ctx, handle); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", handle)
	}
	return s.weetRepo.ListByAuthor(ctx, handle, viewer)
}

// GetReacted returns the weets handle has reacted to with kind, newest weet
// first. Backs the reweets/favorites/tabs profile listings.
func (s *WeetService) GetReacted(ctx context.Context, kind models.ReactionKind, handle, viewer string) ([]*models.Weet, error) {
	if exists, err := s.userRepo.HandleExists(ctx, handle); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", handle)
	}
	return s.weetRepo.ListReacted(ctx, kind, handle, viewer)
}

// GetFeed returns handle's own weets plus those of everyone they follow,
// newest first.
func (s *WeetService) GetFeed(ctx context.Context, handle string) ([]*models.Weet, error) {
	if exists, err := s.userRepo.HandleExists(ctx, handle); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", handle)
	}
	return s.weetRepo.Feed(ctx, handle)
}

// React adds a reaction edge of the given kind. Reacting twice is a
// conflict.
func (s *WeetService) React(ctx context.Context, kind models.ReactionKind, handle string, weetID uint) error {
	if err := s.checkReactionTargets(ctx, handle, weetID); err != nil {
		return err
	}
	return s.weetRepo.React(ctx, kind, handle, weetID)
}

// Unreact removes a reaction edge of the given kind. Removing an absent
// reaction is a conflict.
func (s *WeetService) Unreact(ctx context.Context, kind models.ReactionKind, handle string, weetID uint) error {
	if err := s.checkReactionTargets(ctx, handle, weetID); err != nil {
		return err
	}
	return s.weetRepo.Unreact(ctx, kind, handle, weetID)
}

func (s *WeetService) checkReactionTargets(ctx context.Context, handle string, weetID uint) error {
	if exists, err := s.userRepo.HandleExists(ctx, handle); err != nil {
		return err
	} else if !exists {
		return models.NewNotFoundError("User", handle)
	}
	if exists, err := s.weetRepo.Exists(ctx, weetID); err != nil {
		return err
	} else if !exists {
		return models.NewNotFoundError("Weet", weetID)
	}
	return nil
}
