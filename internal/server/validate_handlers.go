package server

import (
	"witter/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidateSignUp reports per-field validity for registration input without
// creating anything. Uniqueness of handle and email is checked against the
// database.
func (s *Server) ValidateSignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	report, err := s.checker.IsValidSignUp(c.Context(), req.Handle, req.Username, req.Password, req.Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": report,
	})
}

// ValidateUpdateProfile reports per-field validity for a profile update.
// Owner only; runs behind RequireOwner.
func (s *Server) ValidateUpdateProfile(c *fiber.Ctx) error {
	var req editProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	report, err := s.checker.IsValidUpdateProfile(c.Context(), c.Params("handle"), validation.UpdateProfileInput{
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
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": report,
	})
}
