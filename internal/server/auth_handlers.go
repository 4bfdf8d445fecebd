package server

import (
	"witter/internal/middleware"
	"witter/internal/service"

	"github.com/gofiber/fiber/v2"
)

type signUpRequest struct {
	Handle   string `json:"handle"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type logInRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// SignUp registers a new account and returns a signed token for it.
func (s *Server) SignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	signed, user, err := s.userService.Register(c.Context(), service.RegisterInput{
		Handle:   req.Handle,
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "account created", "handle", user.Handle)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": signed,
	})
}

// LogIn authenticates handle + password and returns a signed token.
func (s *Server) LogIn(c *fiber.Ctx) error {
	var req logInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	signed, err := s.userService.Authenticate(c.Context(), req.Handle, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": signed,
	})
}
