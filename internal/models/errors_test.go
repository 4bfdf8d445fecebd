package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := NewInternalError(cause)

	assert.True(t, errors.Is(appErr, cause))
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		status  int
		code    string
		message string
	}{
		{"validation", NewValidationError("Weet text cannot be blank"), http.StatusBadRequest, "VALIDATION_ERROR", "Weet text cannot be blank"},
		{"unauthorized", NewUnauthorizedError("Invalid token"), http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token"},
		{"conflict", NewConflictError("Handle is already taken"), http.StatusForbidden, "CONFLICT", "Handle is already taken"},
		{"not found", NewNotFoundError("Weet", 42), http.StatusNotFound, "NOT_FOUND", "Weet 42 not found"},
		{"internal", NewInternalError(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Message)
		})
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"app error", NewNotFoundError("User", "ghosthandle"), http.StatusNotFound, "User ghosthandle not found"},
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "Invalid weet ID"), http.StatusBadRequest, "Invalid weet ID"},
		{"wrapped app error", fmtWrap(NewUnauthorizedError("Invalid token")), http.StatusUnauthorized, "Invalid token"},
		{"plain error", errors.New("database exploded"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: RespondWithError})
			app.Get("/", func(c *fiber.Ctx) error {
				return tt.err
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func fmtWrap(err error) error {
	return errors.Join(errors.New("handling request"), err)
}
