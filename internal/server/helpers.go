package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// tokenEnvelope picks the token field out of any JSON request body.
type tokenEnvelope struct {
	Token string `json:"_token"`
}

// requestToken extracts the caller's token. The primary transport is the
// "_token" field of the JSON body; an Authorization Bearer header is
// accepted as fallback. Returns "" when neither is present.
func requestToken(c *fiber.Ctx) string {
	var env tokenEnvelope
	if err := c.BodyParser(&env); err == nil && env.Token != "" {
		return env.Token
	}

	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}

// parseID extracts a route parameter by name as a positive uint.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid weet ID")
	}
	return uint(id), nil
}

// signedInHandle returns the handle the signed-in gate stored for this
// request. Empty when the route carries no gate.
func signedInHandle(c *fiber.Ctx) string {
	if handle, ok := c.Locals("handle").(string); ok {
		return handle
	}
	return ""
}
