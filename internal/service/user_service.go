package service

import (
	"context"

	"witter/internal/models"
	"witter/internal/repository"
	"witter/internal/token"

	"golang.org/x/crypto/bcrypt"
)

// UserService provides account, profile and follow-graph business logic.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	jwtSecret  string
}

// RegisterInput carries the fields of a sign-up request.
type RegisterInput struct {
	Handle   string
	Username string
	Password string
	Email    string
}

// UpdateProfileInput carries the editable profile fields. Empty fields are
// left unchanged; OldPassword must always re-authenticate the owner.
type UpdateProfileInput struct {
	Username        string
	OldPassword     string
	NewPassword     string
	Email           string
	UserDescription string
	ProfilePicture  string
	BannerPicture   string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, jwtSecret string) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		jwtSecret:  jwtSecret,
	}
}

// Register creates an account and returns a signed token for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, *models.User, error) {
	if in.Handle == "" || in.Username == "" || in.Password == "" || in.Email == "" {
		return "", nil, models.NewValidationError("Handle, username, password and email are all required")
	}

	if taken, err := s.userRepo.HandleExists(ctx, in.Handle); err != nil {
		return "", nil, err
	} else if taken {
		return "", nil, models.NewConflictError("Handle is already taken")
	}
	if owner, err := s.userRepo.EmailOwner(ctx, in.Email); err != nil {
		return "", nil, err
	} else if owner != "" {
		return "", nil, models.NewConflictError("Email is already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}

	user := &models.User{
		Handle:   in.Handle,
		Username: in.Username,
		Password: string(hashed),
		Email:    in.Email,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, err
	}

	signed, err := token.Issue(user.Handle, s.jwtSecret)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return signed, user, nil
}

// Authenticate verifies handle + password and returns a signed token.
func (s *UserService) Authenticate(ctx context.Context, handle, password string) (string, error) {
	user, err := s.userRepo.FindByHandle(ctx, handle)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewUnauthorizedError("Invalid handle or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", models.NewUnauthorizedError("Invalid handle or password")
	}

	signed, err := token.Issue(user.Handle, s.jwtSecret)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

// Get returns a profile. When viewer is set the result carries the two
// directed follow flags between viewer and the profile.
func (s *UserService) Get(ctx context.Context, handle, viewer string) (*models.User, error) {
	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	if viewer != "" && viewer != handle {
		status, err := s.followRepo.Status(ctx, viewer, handle)
		if err != nil {
			return nil, err
		}
		user.FollowStatus = status
	}
	return user, nil
}

// Update edits a profile. The old password must re-authenticate the owner on
// every call; a new password, when supplied, is validated and rotated in.
// Returns a fresh token alongside the updated row.
func (s *UserService) Update(ctx context.Context, handle string, in UpdateProfileInput) (string, *models.User, error) {
	user, err := s.userRepo.FindByHandle(ctx, handle)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, models.NewNotFoundError("User", handle)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)); err != nil {
		return "", nil, models.NewUnauthorizedError("Old password is incorrect")
	}

	if in.Email != "" {
		owner, err := s.userRepo.EmailOwner(ctx, in.Email)
		if err != nil {
			return "", nil, err
		}
		if owner != "" && owner != handle {
			return "", nil, models.NewConflictError("Email is already in use")
		}
		user.Email = in.Email
	}

	if in.NewPassword != "" {
		// Only the hard constraints block the update; the full strength
		// rules live in the /validate report pipeline.
		if in.NewPassword == in.OldPassword {
			return "", nil, models.NewValidationError("New password cannot be the same as the old password.")
		}
		if len(in.NewPassword) < 8 || len(in.NewPassword) > 20 {
			return "", nil, models.NewValidationError("Password must be between 8 and 20 characters long.")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if in.Username != "" {
		user.Username = in.Username
	}
	if in.UserDescription != "" {
		user.UserDescription = in.UserDescription
	}
	if in.ProfilePicture != "" {
		user.ProfileImage = in.ProfilePicture
	}
	if in.BannerPicture != "" {
		user.BannerImage = in.BannerPicture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", nil, err
	}

	signed, err := token.Issue(user.Handle, s.jwtSecret)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return signed, user, nil
}

// Delete removes an account. Follows, weets and reactions cascade at the
// store.
func (s *UserService) Delete(ctx context.Context, handle string) error {
	return s.userRepo.Delete(ctx, handle)
}

// Follow adds a directed follow edge.
func (s *UserService) Follow(ctx context.Context, follower, followee string) error {
	if follower == followee {
		return models.NewConflictError("You cannot follow yourself")
	}
	if exists, err := s.userRepo.HandleExists(ctx, followee); err != nil {
		return err
	} else if !exists {
		return models.NewNotFoundError("User", followee)
	}
	return s.followRepo.Create(ctx, follower, followee)
}

// Unfollow removes a directed follow edge.
func (s *UserService) Unfollow(ctx context.Context, follower, followee string) error {
	if follower == followee {
		return models.NewConflictError("You cannot unfollow yourself")
	}
	if exists, err := s.userRepo.HandleExists(ctx, followee); err != nil {
		return err
	} else if !exists {
		return models.NewNotFoundError("User", followee)
	}
	return s.followRepo.Delete(ctx, follower, followee)
}

// GetFollowers returns the users following handle, oldest edge first, each
// annotated with the viewer's follow status.
func (s *UserService) GetFollowers(ctx context.Context, handle, viewer string) ([]models.User, error) {
	if exists, err := s.userRepo.HandleExists(ctx, handle); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", handle)
	}
	users, err := s.followRepo.GetFollowers(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, users, viewer)
}

// GetFollowing returns the users handle follows, oldest edge first, each
// annotated with the viewer's follow status.
func (s *UserService) GetFollowing(ctx context.Context, handle, viewer string) ([]models.User, error) {
	if exists, err := s.userRepo.HandleExists(ctx, handle); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", handle)
	}
	users, err := s.followRepo.GetFollowing(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, users, viewer)
}

// Search finds users by case-insensitive username substring, each annotated
// with the viewer's follow status. Result ordering is stable across calls.
func (s *UserService) Search(ctx context.Context, query, viewer string) ([]models.User, error) {
	users, err := s.userRepo.SearchByUsername(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, users, viewer)
}

// annotate attaches viewer-relative follow status to each user with two
// batched edge lookups instead of a query pair per row.
func (s *UserService) annotate(ctx context.Context, users []models.User, viewer string) ([]models.User, error) {
	if viewer == "" || len(users) == 0 {
		return users, nil
	}

	handles := make([]string, 0, len(users))
	for _, u := range users {
		if u.Handle != viewer {
			handles = append(handles, u.Handle)
		}
	}

	statuses, err := s.followRepo.StatusBatch(ctx, viewer, handles)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Handle == viewer {
			continue
		}
		status := statuses[users[i].Handle]
		users[i].FollowStatus = &status
	}
	return users, nil
}
