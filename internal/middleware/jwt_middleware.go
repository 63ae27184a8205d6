package middleware

import (
	"strings"

	"teslo/internal/apperrors"
	"teslo/internal/models"
	"teslo/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const userLocalsKey = "user"

// Auth is a Fiber middleware that resolves the bearer token to an active
// user and, when roles are given, requires the user to hold one of them.
func Auth(authService *services.AuthService, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperrors.Unauthorized("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return apperrors.Unauthorized("Authorization header format must be 'Bearer <token>'")
		}

		user, err := authService.ResolvePrincipal(parts[1])
		if err != nil {
			zap.L().Debug("JWT validation failed", zap.String("path", c.Path()), zap.Error(err))
			return err
		}
		c.Locals(userLocalsKey, user)

		if err := CheckRoles(roles, user); err != nil {
			return err
		}
		return c.Next()
	}
}

// UserFrom returns the user stored by Auth, or nil on public routes.
func UserFrom(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
