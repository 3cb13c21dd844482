package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobit-client/internal/domain"
)

// RequireRole ensures the principal has one of the allowed roles.
// reject renders the failure in the API error shape.
func RequireRole(reject func(c *fiber.Ctx, status int, code, message string) error, allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return reject(c, fiber.StatusUnauthorized, "authentication_failed", "Not authenticated")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return reject(c, fiber.StatusForbidden, "authorization_failed", "Access forbidden")
		}
		return c.Next()
	}
}
