package server

import (
	"witter/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers finds users by case-insensitive username substring, each
// annotated with the caller's follow status.
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	users, err := s.userService.Search(c.Context(), c.Params("search"), signedInHandle(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": users,
	})
}

// FollowUser adds a follow edge from the caller to the named user.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	follower := signedInHandle(c)
	followee := c.Params("handle")
	if err := s.userService.Follow(c.Context(), follower, followee); err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "follow added", "followee", followee)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "You are now following @" + followee,
	})
}

// UnfollowUser removes the caller's follow edge to the named user.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	follower := signedInHandle(c)
	followee := c.Params("handle")
	if err := s.userService.Unfollow(c.Context(), follower, followee); err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "follow removed", "followee", followee)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "You are no longer following @" + followee,
	})
}
