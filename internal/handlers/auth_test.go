package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habit-tracker-api/internal/dto"
)

func TestAuthHandler_SessionLifecycle(t *testing.T) {
	env := setupAPI(t)

	body, err := json.Marshal(map[string]string{"access_token": env.tokens["alice"]})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/session", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode[dto.ProfileDTO](t, w)
	assert.Equal(t, "alice", profile.ID)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "dark", profile.Theme)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// the cookie alone authenticates
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[dto.ProfileDTO](t, w).ID)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_CreateSessionFromHeader(t *testing.T) {
	env := setupAPI(t)

	w := env.do(t, "bob", http.MethodPost, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", decode[dto.ProfileDTO](t, w).ID)
}

func TestAuthHandler_CreateSessionRejects(t *testing.T) {
	env := setupAPI(t)

	w := env.do(t, "", http.MethodPost, "/api/auth/session", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "", http.MethodPost, "/api/auth/session", map[string]string{"access_token": "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := setupAPI(t)

	for _, path := range []string{"/api/today", "/api/habits", "/api/tasks", "/api/history/habits", "/api/settings/profile"} {
		w := env.do(t, "", http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestHealth(t *testing.T) {
	env := setupAPI(t)

	w := env.do(t, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
