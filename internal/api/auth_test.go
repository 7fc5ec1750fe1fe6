package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/healthbite/backend/internal/api"
	"github.com/pageza/healthbite/backend/internal/models"
)

func TestAuthFlow(t *testing.T) {
	env := newEnv(t)

	w := env.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "cook@example.com",
		"username": "cook",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[api.AuthResponse](t, w)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "cook", registered.User.Username)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "cook@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[api.AuthResponse](t, w).Token

	w = env.do(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.User](t, w)
	assert.Equal(t, registered.User.ID, me.ID)

	w = env.do(http.MethodPost, "/api/auth/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newEnv(t)
	env.register(t, "taken")

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"short password", map[string]string{"email": "a@example.com", "username": "alpha", "password": "short"}, http.StatusBadRequest},
		{"bad email", map[string]string{"email": "not-an-email", "username": "alpha", "password": "password123"}, http.StatusBadRequest},
		{"duplicate username", map[string]string{"email": "new@example.com", "username": "taken", "password": "password123"}, http.StatusConflict},
		{"duplicate email", map[string]string{"email": "taken@example.com", "username": "fresh", "password": "password123"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newEnv(t)
	env.register(t, "cook")

	w := env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "cook@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newEnv(t)

	for _, path := range []string{"/api/auth/me", "/api/recipes", "/api/recipes/stats"} {
		w := env.do(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := env.do(http.MethodGet, "/api/recipes", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
