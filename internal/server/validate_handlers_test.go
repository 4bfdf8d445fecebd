package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldReport(t *testing.T, body map[string]interface{}, field string) map[string]interface{} {
	t.Helper()
	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	report, ok := result[field].(map[string]interface{})
	require.True(t, ok, "report must contain field %q", field)
	return report
}

func TestValidateSignUp(t *testing.T) {
	_, app := setupTestServer(t)
	signUp(t, app, "handle1234")

	t.Run("all valid, no token needed", func(t *testing.T) {
		status, body := postJSON(t, app, "/validate/sign-up", map[string]interface{}{
			"handle":   "freshhandle",
			"username": "Fresh User",
			"password": "Password1!",
			"email":    "fresh@example.com",
		})
		require.Equal(t, http.StatusCreated, status)

		for _, field := range []string{"handle", "username", "password", "email"} {
			report := fieldReport(t, body, field)
			assert.Equal(t, true, report["isValid"], "field %s", field)
		}
	})

	t.Run("taken handle and weak password", func(t *testing.T) {
		status, body := postJSON(t, app, "/validate/sign-up", map[string]interface{}{
			"handle":   "handle1234",
			"username": "Another User",
			"password": "short",
			"email":    "another@example.com",
		})
		require.Equal(t, http.StatusCreated, status)

		handle := fieldReport(t, body, "handle")
		assert.Equal(t, false, handle["isValid"])
		assert.Contains(t, handle["messages"], "Handle is already taken.")

		password := fieldReport(t, body, "password")
		assert.Equal(t, false, password["isValid"])
		assert.NotEmpty(t, password["messages"])
	})
}

func TestValidateUpdateProfile(t *testing.T) {
	_, app := setupTestServer(t)
	tok := signUp(t, app, "handle1234")
	otherTok := signUp(t, app, "handle5678")

	t.Run("requires ownership", func(t *testing.T) {
		status, _ := postJSON(t, app, "/validate/update-profile/handle1234", map[string]interface{}{
			"_token": otherTok,
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("own email allowed, new password report included", func(t *testing.T) {
		status, body := postJSON(t, app, "/validate/update-profile/handle1234", map[string]interface{}{
			"_token":      tok,
			"username":    "User handle1234",
			"oldPassword": "Password1!",
			"newPassword": "Different2@",
			"email":       "handle1234@example.com",
		})
		require.Equal(t, http.StatusCreated, status)

		email := fieldReport(t, body, "email")
		assert.Equal(t, true, email["isValid"])

		newPassword := fieldReport(t, body, "newPassword")
		assert.Equal(t, true, newPassword["isValid"])
	})

	t.Run("foreign email rejected, absent new password omitted", func(t *testing.T) {
		status, body := postJSON(t, app, "/validate/update-profile/handle1234", map[string]interface{}{
			"_token":      tok,
			"username":    "User handle1234",
			"oldPassword": "Password1!",
			"email":       "handle5678@example.com",
		})
		require.Equal(t, http.StatusCreated, status)

		email := fieldReport(t, body, "email")
		assert.Equal(t, false, email["isValid"])

		result := body["result"].(map[string]interface{})
		assert.NotContains(t, result, "newPassword")
	})
}
