package fakeapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/auth"
	"github.com/spec-kit/jobit-client/internal/domain"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// issueToken handles the password grant. The form field "username" carries the email.
func (s *Server) issueToken(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "username and password are required"})
	}

	acc, ok := s.dir.authenticate(username, password)
	if !ok {
		s.logger.Info("fake API login rejected", zap.String("username", username))
		return reject(c, fiber.StatusUnauthorized, "authentication_failed", "Incorrect username or password")
	}
	token, _, err := s.tokens.GenerateToken(acc.user.Email, acc.user.ID, acc.user.Role, acc.companyID)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) checkEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "email is required"})
	}
	return c.JSON(domain.EmailAvailability{Available: !s.dir.emailTaken(email)})
}

func (s *Server) registerCandidate(c *fiber.Ctx) error {
	var req domain.CandidateRegistration
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "email and password required")
	}
	if _, err := s.dir.addAccount(req.Email, req.Password, req.FirstName, req.LastName, domain.RoleCandidate, nil); err != nil {
		return s.registrationError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) registerCompany(c *fiber.Ctx) error {
	var req domain.CompanyRegistration
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.CompanyName == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "email, password and company_name required")
	}
	if s.dir.emailTaken(req.Email) {
		return s.registrationError(c, errEmailTaken)
	}
	companyID := s.dir.addCompany(req.CompanyName, "", req.CountryCode)
	if _, err := s.dir.addAccount(req.Email, req.Password, req.FirstName, req.LastName, domain.RoleCompanyManager, &companyID); err != nil {
		return s.registrationError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) registrationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errEmailTaken) {
		return reject(c, fiber.StatusBadRequest, "email_already_exists", "Email already registered")
	}
	return err
}

func (s *Server) me(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	user, ok := s.dir.userByID(principal.SubjectID)
	if !ok {
		return reject(c, fiber.StatusNotFound, "user_not_found", "User not found")
	}
	return c.JSON(user)
}

func (s *Server) searchJobs(c *fiber.Ctx) error {
	return c.JSON(s.dir.search(c.Query("query"), c.QueryInt("page", 1), nil))
}

func (s *Server) getJob(c *fiber.Ctx) error {
	job, err := s.dir.job(c.Params("id"))
	if err != nil {
		return s.jobError(c, c.Params("id"), err)
	}
	return c.JSON(job)
}

// relatedJobs returns jobs sharing a skill with the given job.
func (s *Server) relatedJobs(c *fiber.Ctx) error {
	job, err := s.dir.job(c.Params("id"))
	if err != nil {
		return s.jobError(c, c.Params("id"), err)
	}
	skills := map[string]struct{}{}
	for _, sk := range job.SkillsRequired {
		skills[strings.ToLower(sk)] = struct{}{}
	}
	related := s.dir.search("", 1, func(other domain.Job) bool {
		if other.ID == job.ID {
			return false
		}
		for _, sk := range other.SkillsRequired {
			if _, ok := skills[strings.ToLower(sk)]; ok {
				return true
			}
		}
		return other.Company.Name == job.Company.Name
	})
	return c.JSON(related)
}

func (s *Server) createJob(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if principal.CompanyID == nil {
		return reject(c, fiber.StatusBadRequest, "job_creation_failed", "Account has no company")
	}
	company, ok := s.dir.company(*principal.CompanyID)
	if !ok {
		return reject(c, fiber.StatusBadRequest, "job_creation_failed", "Company not found")
	}

	var draft domain.JobDraft
	if err := c.BodyParser(&draft); err != nil || strings.TrimSpace(draft.JobTitle) == "" {
		return reject(c, fiber.StatusBadRequest, "job_creation_failed", "job_title is required")
	}
	job := s.dir.createJob(*principal.CompanyID, company, draft)
	return c.Status(fiber.StatusCreated).JSON(job)
}

func (s *Server) deleteJob(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	companyID := ""
	if principal.CompanyID != nil {
		companyID = *principal.CompanyID
	}
	if err := s.dir.deleteJob(companyID, c.Params("id")); err != nil {
		return s.jobError(c, c.Params("id"), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) apply(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := s.dir.apply(principal.SubjectID, c.Params("id")); err != nil {
		return s.jobError(c, c.Params("id"), err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) myApplications(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	applied := s.dir.appliedJobs(principal.SubjectID)
	jobs := s.dir.search(c.Query("query"), c.QueryInt("page", 1), func(j domain.Job) bool {
		_, ok := applied[j.ID]
		return ok
	})
	out := make([]domain.JobApplication, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toApplication(j, true))
	}
	return c.JSON(out)
}

// recommendations lists jobs the candidate has not applied to yet.
func (s *Server) recommendations(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	applied := s.dir.appliedJobs(principal.SubjectID)
	jobs := s.dir.search(c.Query("query"), c.QueryInt("page", 1), func(j domain.Job) bool {
		_, ok := applied[j.ID]
		return !ok
	})
	out := make([]domain.JobApplication, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toApplication(j, false))
	}
	return c.JSON(out)
}

func (s *Server) jobError(c *fiber.Ctx, id string, err error) error {
	switch {
	case errors.Is(err, errJobNotFound):
		return reject(c, fiber.StatusNotFound, "job_not_found", "Job with id "+id+" not found")
	case errors.Is(err, errJobForbidden):
		return reject(c, fiber.StatusForbidden, "job_access_forbidden", "Job with id "+id+" is not accessible")
	case errors.Is(err, errAlreadyApplied):
		return reject(c, fiber.StatusBadRequest, "job_already_applied", "Job with id "+id+" already applied")
	}
	return err
}
