package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore-api/internal/config"
	"bookstore-api/internal/core/domain"
	"bookstore-api/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenMins: 5},
	}
}

func bearer(t *testing.T, cfg *config.Config, userID uint, role domain.Role) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userID, "u@example.com", string(role), cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)
	return "Bearer " + token
}

func call(t *testing.T, app *fiber.App, method, path, auth string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Get("/me", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		userID, role, ok := CurrentUser(c)
		if !ok || userID != 7 || role != domain.RoleLibrarian {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name string
		auth string
		want int
	}{
		{"valid token", bearer(t, cfg, 7, domain.RoleLibrarian), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"wrong secret", bearer(t, &config.Config{JWT: config.JWTConfig{Secret: "other", AccessTokenMins: 5}}, 7, domain.RoleLibrarian), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(t, app, http.MethodGet, "/me", tt.auth))
		})
	}
}

func TestRoleGuards(t *testing.T) {
	cfg := testConfig()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	app := fiber.New()
	app.Get("/admin", AuthMiddleware(cfg), AdminOnly(), ok)
	app.Get("/catalog", AuthMiddleware(cfg), LibrarianOrAdmin(), ok)
	app.Get("/users/:user_id", AuthMiddleware(cfg), SelfOrStaff("user_id"), ok)

	customer := bearer(t, cfg, 1, domain.RoleCustomer)
	librarian := bearer(t, cfg, 2, domain.RoleLibrarian)
	admin := bearer(t, cfg, 3, domain.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/admin", customer))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/admin", librarian))
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/admin", admin))

	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/catalog", customer))
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/catalog", librarian))

	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/users/1", customer))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/users/2", customer))
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/users/abc", customer))
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/users/1", librarian))
}
