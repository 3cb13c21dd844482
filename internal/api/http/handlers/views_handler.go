package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobit-client/internal/api/dto"
	"github.com/spec-kit/jobit-client/internal/navigation"
)

// ViewsHandler serves the static pages.
type ViewsHandler struct {
	router *navigation.Router
}

// NewViewsHandler constructs handler.
func NewViewsHandler(router *navigation.Router) *ViewsHandler {
	return &ViewsHandler{router: router}
}

// View returns a handler rendering the named page.
func (h *ViewsHandler) View(name string, status int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(status).JSON(dto.ViewResponse{View: name, Location: h.router.Current()})
	}
}
