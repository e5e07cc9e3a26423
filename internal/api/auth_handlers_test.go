package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":       "first@example.com",
		"password":    "correct-horse-battery",
		"displayName": "First Reader",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body map[string]any
	require.NoError(t, decodeBody(resp.Body.Bytes(), &body))
	user := body["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"], "first account becomes admin")
	assert.Equal(t, "first@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "reader@example.com",
		"password": "another-password-1",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestLoginEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "reader@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]any
	require.NoError(t, decodeBody(resp.Body.Bytes(), &body))
	session := body["session"].(map[string]any)
	assert.NotEmpty(t, session["accessToken"])
	assert.NotEmpty(t, session["refreshToken"])
	assert.Equal(t, "Bearer", session["tokenType"])
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "reader@example.com",
		"password": "wrong-password-here",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "reader@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Session struct {
			RefreshToken string `json:"refreshToken"`
		} `json:"session"`
	}
	require.NoError(t, decodeBody(resp.Body.Bytes(), &body))

	refreshResp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": body.Session.RefreshToken,
	})
	require.Equal(t, http.StatusOK, refreshResp.Code)

	// Old token no longer works
	again := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": body.Session.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, again.Code)
}

func TestCurrentUserEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]any
	require.NoError(t, decodeBody(resp.Body.Bytes(), &body))
	assert.Equal(t, userID, body["id"])

	noAuth := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, noAuth.Code)
}

func TestAdminEndpoints_RequireAdminRole(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "admin@example.com")
	readerToken, _ := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Get("/api/v1/admin/users", "Authorization: "+readerToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	createResp := ts.api.Post("/api/v1/books",
		"Authorization: "+readerToken,
		map[string]any{"title": "Nope", "author": "N. Ope", "genre": "Crime"})
	assert.Equal(t, http.StatusForbidden, createResp.Code)
}
