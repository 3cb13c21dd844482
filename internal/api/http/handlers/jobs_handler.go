package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobit-client/internal/api/dto"
	"github.com/spec-kit/jobit-client/internal/domain"
	"github.com/spec-kit/jobit-client/internal/navigation"
	"github.com/spec-kit/jobit-client/internal/stores"
)

// JobsHandler serves job listing pages.
type JobsHandler struct {
	jobs         *stores.Jobs
	applications *stores.Applications
	router       *navigation.Router
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobs *stores.Jobs, applications *stores.Applications, router *navigation.Router) *JobsHandler {
	return &JobsHandler{jobs: jobs, applications: applications, router: router}
}

// Search GET /jobs.
func (h *JobsHandler) Search(c *fiber.Ctx) error {
	query, page := pageParams(c)
	items, err := h.jobs.Search(c.UserContext(), query, page)
	if err != nil {
		return followNavigation(c, h.router, err)
	}
	return c.JSON(dto.JobPage{Query: query, Page: page, Items: items})
}

// Detail GET /jobs/:id. Related listings are best effort.
func (h *JobsHandler) Detail(c *fiber.Ctx) error {
	ctx := c.UserContext()
	job, err := h.jobs.Get(ctx, c.Params("id"))
	if err != nil {
		return followNavigation(c, h.router, err)
	}
	related, _ := h.jobs.Related(ctx, job.ID)
	if related == nil {
		related = []domain.Job{}
	}
	return c.JSON(dto.JobDetail{Job: job, Related: related})
}

// Applications GET /applications.
func (h *JobsHandler) Applications(c *fiber.Ctx) error {
	query, page := pageParams(c)
	items, err := h.applications.Mine(c.UserContext(), query, page)
	if err != nil {
		return followNavigation(c, h.router, err)
	}
	return c.JSON(dto.ApplicationPage{Query: query, Page: page, Items: items})
}

// Recommendations GET /recommendations.
func (h *JobsHandler) Recommendations(c *fiber.Ctx) error {
	query, page := pageParams(c)
	items, err := h.applications.Recommendations(c.UserContext(), query, page)
	if err != nil {
		return followNavigation(c, h.router, err)
	}
	return c.JSON(dto.ApplicationPage{Query: query, Page: page, Items: items})
}
