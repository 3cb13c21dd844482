package stores

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/domain"
)

// Users covers registration and the current account.
type Users struct {
	api    API
	logger *zap.Logger
}

// NewUsers constructs the users store.
func NewUsers(api API, logger *zap.Logger) *Users {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Users{api: api, logger: logger}
}

// CheckEmail asks whether email is still free to register.
func (s *Users) CheckEmail(ctx context.Context, email string) (domain.EmailAvailability, error) {
	var out domain.EmailAvailability
	err := s.api.Get(ctx, "/users/check-email?email="+url.QueryEscape(email), &out)
	return out, err
}

// RegisterCandidate creates a candidate account.
func (s *Users) RegisterCandidate(ctx context.Context, req domain.CandidateRegistration) error {
	return s.api.Post(ctx, "/users/candidates", req, nil)
}

// RegisterCompany creates a company and its manager account.
func (s *Users) RegisterCompany(ctx context.Context, req domain.CompanyRegistration) error {
	return s.api.Post(ctx, "/users/companies", req, nil)
}

// Me loads the logged-in account.
func (s *Users) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	if err := s.api.Get(ctx, "/users/me", &out); err != nil {
		s.logger.Error("fetch current user failed", zap.Error(err))
		return domain.User{}, err
	}
	return out, nil
}
