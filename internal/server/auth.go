package server

import (
	"context"

	"witter/internal/middleware"
	"witter/internal/models"
	"witter/internal/token"

	"github.com/gofiber/fiber/v2"
)

// RequireSignedIn returns middleware that admits only requests carrying a
// token this service issued for an existing account. The decoded handle is
// stored in locals for downstream gates and handlers. Every failure path
// returns 401; the gate never lets an undecidable request through.
func (s *Server) RequireSignedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := requestToken(c)
		if tokenString == "" {
			middleware.AuthFailures.WithLabelValues("missing_token").Inc()
			return models.NewUnauthorizedError("Authorization required")
		}

		if !token.VerifyOrigin(tokenString, s.config.JWTSecret) {
			middleware.AuthFailures.WithLabelValues("bad_origin").Inc()
			return models.NewUnauthorizedError("Invalid token")
		}

		claims, err := token.Decode(tokenString, s.config.JWTSecret)
		if err != nil {
			middleware.AuthFailures.WithLabelValues("bad_token").Inc()
			return models.NewUnauthorizedError("Invalid token")
		}

		// A token can outlive its account; the handle must still exist.
		exists, err := s.userRepo.HandleExists(c.Context(), claims.Handle)
		if err != nil {
			return err
		}
		if !exists {
			middleware.AuthFailures.WithLabelValues("unknown_handle").Inc()
			return models.NewUnauthorizedError("Invalid token")
		}

		c.Locals("handle", claims.Handle)
		ctx := context.WithValue(c.UserContext(), middleware.HandleKey, claims.Handle)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequireOwner returns middleware that admits only the owner of the profile
// named by the :handle route param. Must run after RequireSignedIn.
func (s *Server) RequireOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if signedInHandle(c) != c.Params("handle") {
			middleware.AuthFailures.WithLabelValues("not_owner").Inc()
			return models.NewUnauthorizedError("You can only modify your own profile")
		}
		return c.Next()
	}
}

// RequireAuthor returns middleware that admits only the author of the weet
// named by the :id route param. Must run after RequireSignedIn.
func (s *Server) RequireAuthor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		author, err := s.weetService.AuthorOf(c.Context(), id)
		if err != nil {
			return err
		}
		if signedInHandle(c) != author {
			middleware.AuthFailures.WithLabelValues("not_author").Inc()
			return models.NewUnauthorizedError("You can only modify your own weets")
		}
		return c.Next()
	}
}
