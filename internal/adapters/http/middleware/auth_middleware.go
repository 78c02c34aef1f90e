package middleware

import (
	"errors"
	"strings"

	"bookstore-api/internal/config"
	"bookstore-api/internal/core/domain"
	"bookstore-api/internal/pkg/jwt"
	"bookstore-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID = "userID"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthMiddleware requires a valid bearer access token
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		accessToken, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if domain.Role(role) == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// LibrarianOrAdmin middleware allows staff roles
func LibrarianOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleLibrarian, domain.RoleAdmin)
}

// SelfOrStaff allows the user named by the :user_id param, or any librarian/admin
func SelfOrStaff(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		if domain.Role(role).CanManageCatalog() {
			return c.Next()
		}

		userID, _ := c.Locals(LocalUserID).(uint)
		target, err := c.ParamsInt(param)
		if err != nil || target <= 0 {
			return response.BadRequest(c, "Invalid user ID")
		}
		if uint(target) != userID {
			return response.Forbidden(c, "You can only manage your own borrowed books")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user ID and role
func CurrentUser(c *fiber.Ctx) (uint, domain.Role, bool) {
	userID, ok := c.Locals(LocalUserID).(uint)
	if !ok {
		return 0, "", false
	}
	role, _ := c.Locals(LocalRole).(string)
	return userID, domain.Role(role), true
}
