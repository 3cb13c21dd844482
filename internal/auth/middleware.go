package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "auth_principal"

// BearerMiddleware validates bearer tokens issued by a TokenManager.
type BearerMiddleware struct {
	tokens *TokenManager
	reject func(c *fiber.Ctx, status int, code, message string) error
}

// NewBearerMiddleware constructs middleware. reject renders authentication failures.
func NewBearerMiddleware(tokens *TokenManager, reject func(c *fiber.Ctx, status int, code, message string) error) *BearerMiddleware {
	return &BearerMiddleware{tokens: tokens, reject: reject}
}

// Handle enforces authentication for protected routes.
func (m *BearerMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return m.reject(c, fiber.StatusUnauthorized, "authentication_failed", "Not authenticated")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return m.reject(c, fiber.StatusUnauthorized, "authentication_failed", "Invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return m.reject(c, fiber.StatusUnauthorized, "authentication_failed", "Could not validate credentials")
	}

	c.Locals(principalKey, claims)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated claims.
func PrincipalFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Claims)
	return principal, ok
}
