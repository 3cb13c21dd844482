package stores

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/domain"
)

// Applications holds the candidate's applications and recommendations.
type Applications struct {
	api    API
	logger *zap.Logger

	mu              sync.RWMutex
	applications    []domain.JobApplication
	recommendations []domain.JobApplication
}

// NewApplications constructs the applications store.
func NewApplications(api API, logger *zap.Logger) *Applications {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applications{api: api, logger: logger}
}

// Mine loads one page of jobs the caller applied to.
func (s *Applications) Mine(ctx context.Context, query string, page int) ([]domain.JobApplication, error) {
	var out []domain.JobApplication
	err := s.api.Get(ctx, pageQuery("/jobs/applications/", query, page), &out)
	if err != nil {
		out = nil
		s.logger.Error("fetch applications failed", zap.String("query", query), zap.Int("page", page), zap.Error(err))
	}
	s.mu.Lock()
	s.applications = out
	s.mu.Unlock()
	return out, err
}

// Recommendations loads one page of jobs recommended for the caller.
func (s *Applications) Recommendations(ctx context.Context, query string, page int) ([]domain.JobApplication, error) {
	var out []domain.JobApplication
	err := s.api.Get(ctx, pageQuery("/jobs/recommendations/", query, page), &out)
	if err != nil {
		out = nil
		s.logger.Error("fetch recommendations failed", zap.String("query", query), zap.Int("page", page), zap.Error(err))
	}
	s.mu.Lock()
	s.recommendations = out
	s.mu.Unlock()
	return out, err
}

// Applied returns the last loaded applications.
func (s *Applications) Applied() []domain.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.JobApplication(nil), s.applications...)
}

// Recommended returns the last loaded recommendations.
func (s *Applications) Recommended() []domain.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.JobApplication(nil), s.recommendations...)
}
