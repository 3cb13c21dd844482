package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobit-client/internal/gateway"
	"github.com/spec-kit/jobit-client/internal/navigation"
)

// followNavigation turns a rejection whose side effect already moved the router
// into a redirect to the router's location. Other errors pass through.
func followNavigation(c *fiber.Ctx, router *navigation.Router, err error) error {
	for _, target := range []error{gateway.ErrUnauthorized, gateway.ErrForbidden, gateway.ErrNotFound, gateway.ErrServerError} {
		if errors.Is(err, target) {
			return c.Redirect(router.Current(), fiber.StatusFound)
		}
	}
	return err
}

func pageParams(c *fiber.Ctx) (string, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return c.Query("query"), page
}
