package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-studio/backend/internal/api/middleware"
)

func TestAuthLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.auth.Register("admin@example.com", "correct horse battery", "Admin")
	require.NoError(t, err)

	w := env.doJSON(t, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "admin@example.com", "password": "correct horse battery"})
	require.Equal(t, http.StatusOK, w.Code)

	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	claims, err := env.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)

	// The session cookie is set alongside the token.
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, token, session.Value)
	assert.True(t, session.HttpOnly)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.auth.Register("admin@example.com", "correct horse battery", "Admin")
	require.NoError(t, err)

	w := env.doJSON(t, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "admin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthLogin_LockedAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.auth.Register("admin@example.com", "correct horse battery", "Admin")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		w := env.doJSON(t, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"email": "admin@example.com", "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// Even the right password is refused while locked.
	w := env.doJSON(t, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "admin@example.com", "password": "correct horse battery"})
	assert.Equal(t, http.StatusLocked, w.Code)
}

func TestAuthLogin_MalformedRequest(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.doJSON(t, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Empty(t, session.Value)
	assert.Negative(t, session.MaxAge)
}
