package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"witter/internal/config"
	"witter/internal/models"
	"witter/internal/repository"
	"witter/internal/service"
	"witter/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "server-test-secret-0123456789abc"

// setupTestServer builds a Server over an in-memory sqlite database with all
// routes registered on a fresh Fiber app.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=1"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Weet{},
		&models.Follow{},
		&models.Reweet{},
		&models.Favorite{},
		&models.Tab{},
	))

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	weetRepo := repository.NewWeetRepository(db)

	s := &Server{
		config:     &config.Config{JWTSecret: testJWTSecret, Env: "test"},
		db:         db,
		userRepo:   userRepo,
		followRepo: followRepo,
		weetRepo:   weetRepo,
	}
	s.userService = service.NewUserService(userRepo, followRepo, testJWTSecret)
	s.weetService = service.NewWeetService(weetRepo, userRepo)
	s.checker = validation.NewChecker(userRepo)

	app := fiber.New(fiber.Config{ErrorHandler: models.RespondWithError})
	s.SetupRoutes(app)

	return s, app
}

// doJSON performs a request with a JSON body and decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, path string, body map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func postJSON(t *testing.T, app *fiber.App, path string, body map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()
	return doJSON(t, app, http.MethodPost, path, body)
}

// signUp registers an account through the API and returns its token.
func signUp(t *testing.T, app *fiber.App, handle string) string {
	t.Helper()
	status, body := postJSON(t, app, "/account/sign-up", map[string]interface{}{
		"handle":   handle,
		"username": "User " + handle,
		"password": "Password1!",
		"email":    handle + "@example.com",
	})
	require.Equal(t, http.StatusCreated, status)
	tok, ok := body["token"].(string)
	require.True(t, ok, "sign-up response must carry a token")
	return tok
}

func TestRequestToken(t *testing.T) {
	app := fiber.New()
	app.Post("/echo", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"token": requestToken(c)})
	})

	t.Run("from body", func(t *testing.T) {
		status, body := postJSON(t, app, "/echo", map[string]interface{}{"_token": "body-token"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "body-token", body["token"])
	})

	t.Run("from bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", nil)
		req.Header.Set("Authorization", "Bearer header-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "header-token", body["token"])
	})

	t.Run("absent", func(t *testing.T) {
		status, body := postJSON(t, app, "/echo", map[string]interface{}{"other": "field"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "", body["token"])
	})
}

func TestParseID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: models.RespondWithError})
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"valid", "/items/42", http.StatusOK},
		{"non numeric", "/items/abc", http.StatusBadRequest},
		{"zero", "/items/0", http.StatusBadRequest},
		{"negative", "/items/-3", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestUnmatchedRoute(t *testing.T) {
	_, app := setupTestServer(t)

	status, body := postJSON(t, app, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found", body["message"])
}
