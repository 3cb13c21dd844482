// Package fakeapi is a development stand-in for the job board API. It speaks the
// same wire contract: a form-encoded password grant, bearer tokens and
// {"detail": {"error_code", "message"}} error bodies.
package fakeapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/auth"
	"github.com/spec-kit/jobit-client/internal/domain"
	"github.com/spec-kit/jobit-client/internal/observability"
)

// Seeded accounts. Every one uses SeedPassword.
const (
	SeedPassword       = "jobit-dev"
	SeedAdminEmail     = "admin@jobit.dev"
	SeedCandidateEmail = "ana@jobit.dev"
	SeedManagerEmail   = "hr@acme.dev"
)

// Config configures the fake API.
type Config struct {
	Secret     string
	TTLMinutes int
	// BcryptCost below bcrypt.MinCost selects the default cost.
	BcryptCost int
	Logger     *zap.Logger
}

// Server is the fake API.
type Server struct {
	app    *fiber.App
	dir    *directory
	tokens *auth.TokenManager
	logger *zap.Logger
}

// New builds a seeded server.
func New(cfg Config) (*Server, error) {
	if cfg.Secret == "" {
		return nil, errors.New("fake API secret is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		dir:    newDirectory(cfg.BcryptCost),
		tokens: auth.NewTokenManager(cfg.Secret, cfg.TTLMinutes),
		logger: logger,
	}
	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("seed fake API: %w", err)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "jobit-fake-api",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(observability.RequestLogger(logger))
	s.routes()
	return s, nil
}

// App exposes the fiber application, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("fake API listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	bearer := auth.NewBearerMiddleware(s.tokens, reject)
	candidate := auth.RequireRole(reject, domain.RoleCandidate)
	manager := auth.RequireRole(reject, domain.RoleCompanyManager)

	s.app.Post("/auth/token", s.issueToken)

	users := s.app.Group("/users")
	users.Get("/check-email", s.checkEmail)
	users.Post("/candidates", s.registerCandidate)
	users.Post("/companies", s.registerCompany)
	users.Get("/me", bearer.Handle, s.me)

	jobs := s.app.Group("/jobs")
	jobs.Get("/search", s.searchJobs)
	jobs.Get("/applications", bearer.Handle, candidate, s.myApplications)
	jobs.Get("/recommendations", bearer.Handle, candidate, s.recommendations)
	jobs.Post("/", bearer.Handle, manager, s.createJob)
	jobs.Get("/:id", s.getJob)
	jobs.Get("/:id/related", s.relatedJobs)
	jobs.Delete("/:id", bearer.Handle, manager, s.deleteJob)
	jobs.Post("/:id/apply", bearer.Handle, candidate, s.apply)
}

func (s *Server) seed() error {
	if _, err := s.dir.addAccount(SeedAdminEmail, SeedPassword, "Admin", "Jobit", domain.RoleAdmin, nil); err != nil {
		return err
	}
	if _, err := s.dir.addAccount(SeedCandidateEmail, SeedPassword, "Ana", "Rojas", domain.RoleCandidate, nil); err != nil {
		return err
	}
	companyID := s.dir.addCompany("Acme", "Bogotá", "CO")
	if _, err := s.dir.addAccount(SeedManagerEmail, SeedPassword, "Hector", "Ruiz", domain.RoleCompanyManager, &companyID); err != nil {
		return err
	}

	company, _ := s.dir.company(companyID)
	drafts := []domain.JobDraft{
		{JobTitle: "Backend engineer", JobShortDescription: "Go services for the hiring platform", Remote: true,
			EmploymentType: domain.EmploymentFullTime, SkillsRequired: []string{"Go", "PostgreSQL"}, SalaryRange: "4000-6000 USD"},
		{JobTitle: "Frontend engineer", JobShortDescription: "Candidate-facing web app", Remote: true,
			EmploymentType: domain.EmploymentFullTime, SkillsRequired: []string{"TypeScript", "Vue"}, SalaryRange: "3500-5000 USD"},
		{JobTitle: "Data analyst", JobShortDescription: "Recruiting funnel analytics", Remote: false,
			EmploymentType: domain.EmploymentContract, SkillsRequired: []string{"SQL", "Python"}, SalaryRange: "2500-3500 USD"},
	}
	for _, d := range drafts {
		s.dir.createJob(companyID, company, d)
	}
	return nil
}

// reject renders an API error body.
func reject(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"detail": fiber.Map{"error_code": code, "message": message},
	})
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusNotFound {
			return c.Status(fe.Code).JSON(fiber.Map{"detail": "Not Found"})
		}
		return reject(c, fe.Code, "request_failed", fe.Message)
	}
	s.logger.Error("fake API handler failed", zap.String("path", c.Path()), zap.Error(err))
	return reject(c, fiber.StatusInternalServerError, "internal_error", "Internal server error")
}
