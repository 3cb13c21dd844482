package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobit-client/internal/api/http/handlers"
	"github.com/spec-kit/jobit-client/internal/navigation"
	"github.com/spec-kit/jobit-client/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Session *handlers.SessionHandler
	Jobs    *handlers.JobsHandler
	Views   *handlers.ViewsHandler
	Router  *navigation.Router
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Page routes pass through the navigation guards.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.JSON(cfg.Metrics.Snapshot())
	})

	app.Get("/session", cfg.Session.Show)
	app.Post("/accounts/login", cfg.Session.Login)
	app.Post("/accounts/logout", cfg.Session.Logout)

	nav := navigationMiddleware(cfg.Router)
	page := func(path string, h fiber.Handler) {
		app.Get(path, nav, h)
	}

	page(navigation.RootRoute, cfg.Views.View("home", fiber.StatusOK))
	page(navigation.LoginRoute, cfg.Views.View("login", fiber.StatusOK))
	page(navigation.ForbiddenRoute, cfg.Views.View("forbidden", fiber.StatusForbidden))
	page(navigation.NotFoundRoute, cfg.Views.View("not-found", fiber.StatusNotFound))
	page(navigation.ServerErrorRoute, cfg.Views.View("server-error", fiber.StatusInternalServerError))

	page(navigation.JobsRoute, cfg.Jobs.Search)
	page(navigation.JobsRoute+"/:id", cfg.Jobs.Detail)
	page("/applications", cfg.Jobs.Applications)
	page("/recommendations", cfg.Jobs.Recommendations)
}
