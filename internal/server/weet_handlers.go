package server

import (
	"witter/internal/middleware"
	"witter/internal/models"

	"github.com/gofiber/fiber/v2"
)

type weetRequest struct {
	Text string `json:"weet"`
}

// CreateWeet posts a new weet authored by the caller.
func (s *Server) CreateWeet(c *fiber.Ctx) error {
	var req weetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	weet, err := s.weetService.Create(c.Context(), signedInHandle(c), req.Text)
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "weet created", "weet_id", weet.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Weet created",
	})
}

// GetFeed returns the caller's own weets plus those of everyone they follow,
// newest first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	weets, err := s.weetService.GetFeed(c.Context(), signedInHandle(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": weets,
	})
}

// GetWeet returns one enriched weet.
func (s *Server) GetWeet(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	weet, err := s.weetService.Get(c.Context(), id, signedInHandle(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": weet,
	})
}

// EditWeet replaces the weet's text. Author only; runs behind RequireAuthor.
func (s *Server) EditWeet(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req weetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	weet, err := s.weetService.Edit(c.Context(), id, req.Text, signedInHandle(c))
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "weet edited", "weet_id", id)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": weet,
	})
}

// DeleteWeet removes the weet. Author only; runs behind RequireAuthor.
func (s *Server) DeleteWeet(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.weetService.Delete(c.Context(), id); err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "weet deleted", "weet_id", id)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Weet deleted",
	})
}

// ReactToWeet returns a handler adding the caller's reaction of the given
// kind to the weet.
func (s *Server) ReactToWeet(kind models.ReactionKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		if err := s.weetService.React(c.Context(), kind, signedInHandle(c), id); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Weet " + kind.Past(),
		})
	}
}

// UnreactToWeet returns a handler removing the caller's reaction of the
// given kind from the weet.
func (s *Server) UnreactToWeet(kind models.ReactionKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		if err := s.weetService.Unreact(c.Context(), kind, signedInHandle(c), id); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Reaction removed",
		})
	}
}
