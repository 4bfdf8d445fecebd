package server

import (
	"witter/internal/middleware"
	"witter/internal/models"
	"witter/internal/service"

	"github.com/gofiber/fiber/v2"
)

type editProfileRequest struct {
	Username        string `json:"username"`
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	Email           string `json:"email"`
	UserDescription string `json:"userDescription"`
	ProfilePicture  string `json:"profilePicture"`
	BannerPicture   string `json:"bannerPicture"`
}

// GetProfile returns one profile with the caller's follow status attached.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.Get(c.Context(), c.Params("handle"), signedInHandle(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user,
	})
}

// EditProfile updates the caller's own profile. The old password must
// re-authenticate on every call; the response carries a fresh token.
func (s *Server) EditProfile(c *fiber.Ctx) error {
	var req editProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	signed, user, err := s.userService.Update(c.Context(), c.Params("handle"), service.UpdateProfileInput{
		Username:        req.Username,
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		Email:           req.Email,
		UserDescription: req.UserDescription,
		ProfilePicture:  req.ProfilePicture,
		BannerPicture:   req.BannerPicture,
	})
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "profile updated", "handle", user.Handle)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": signed,
		"user":  user,
	})
}

// DeleteProfile removes the caller's own account. Follows, weets and
// reactions cascade.
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	handle := c.Params("handle")
	if err := s.userService.Delete(c.Context(), handle); err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "account deleted", "handle", handle)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account deleted",
	})
}

// GetProfileWeets lists the profile's authored weets, newest first.
func (s *Server) GetProfileWeets(c *fiber.Ctx) error {
	weets, err := s.weetService.GetWeets(c.Context(), c.Params("handle"), signedInHandle(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": weets,
	})
}

// GetProfileReweets lists the weets the profile has reweeted.
func (s *Server) GetProfileReweets(c *fiber.Ctx) error {
	return s.profileReactions(c, models.ReactionReweet)
}

// GetProfileFavorites lists the weets the profile has favorited.
func (s *Server) GetProfileFavorites(c *fiber.Ctx) error {
	return s.profileReactions(c, models.ReactionFavorite)
}

// GetProfileTabs lists the weets the profile has tabbed.
func (s *Server) GetProfileTabs(c *fiber.Ctx) error {
	return s.profileReactions(c, models.ReactionTab)
}

func (s *Server) profileReactions(c *fiber.Ctx, kind models.ReactionKind) error {
	weets, err := s.weetService.GetReacted(c.Context(), kind, c.Params("handle"), signedInHandle(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": weets,
	})
}

// GetProfileFollowing lists the users the profile follows.
func (s *Server) GetProfileFollowing(c *fiber.Ctx) error {
	users, err := s.userService.GetFollowing(c.Context(), c.Params("handle"), signedInHandle(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": users,
	})
}

// GetProfileFollowers lists the users following the profile.
func (s *Server) GetProfileFollowers(c *fiber.Ctx) error {
	users, err := s.userService.GetFollowers(c.Context(), c.Params("handle"), signedInHandle(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": users,
	})
}
