package stores

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/domain"
)

// Jobs holds job listings.
type Jobs struct {
	api    API
	logger *zap.Logger

	mu      sync.RWMutex
	jobs    []domain.Job
	job     domain.Job
	related []domain.Job
}

// NewJobs constructs the jobs store.
func NewJobs(api API, logger *zap.Logger) *Jobs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Jobs{api: api, logger: logger}
}

// Search loads one page of active jobs matching query.
func (s *Jobs) Search(ctx context.Context, query string, page int) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := s.api.Get(ctx, pageQuery("/jobs/search", query, page), &jobs); err != nil {
		s.setJobs(nil)
		s.logger.Error("fetch jobs failed", zap.String("query", query), zap.Int("page", page), zap.Error(err))
		return nil, err
	}
	s.setJobs(jobs)
	return jobs, nil
}

// Get loads a single job.
func (s *Jobs) Get(ctx context.Context, id string) (domain.Job, error) {
	var job domain.Job
	if err := s.api.Get(ctx, jobPath(id), &job); err != nil {
		s.mu.Lock()
		s.job = domain.Job{}
		s.mu.Unlock()
		s.logger.Error("fetch job failed", zap.String("job_id", id), zap.Error(err))
		return domain.Job{}, err
	}
	s.mu.Lock()
	s.job = job
	s.mu.Unlock()
	return job, nil
}

// Related loads jobs similar to id.
func (s *Jobs) Related(ctx context.Context, id string) ([]domain.Job, error) {
	var related []domain.Job
	err := s.api.Get(ctx, jobPath(id, "related"), &related)
	if err != nil {
		related = nil
		s.logger.Error("fetch related jobs failed", zap.String("job_id", id), zap.Error(err))
	}
	s.mu.Lock()
	s.related = related
	s.mu.Unlock()
	return related, err
}

// Create registers a job for the caller's company.
func (s *Jobs) Create(ctx context.Context, draft domain.JobDraft) (domain.Job, error) {
	var job domain.Job
	if err := s.api.Post(ctx, "/jobs/", draft, &job); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

// Update replaces the editable fields of a job.
func (s *Jobs) Update(ctx context.Context, id string, draft domain.JobDraft) (domain.Job, error) {
	var job domain.Job
	if err := s.api.Put(ctx, jobPath(id), draft, &job); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

// Delete removes a job and drops it from the local list.
func (s *Jobs) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, jobPath(id), nil); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.jobs[:0]
	for _, j := range s.jobs {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	s.jobs = kept
	return nil
}

// Apply submits the caller's application to a job.
func (s *Jobs) Apply(ctx context.Context, id string) error {
	return s.api.Post(ctx, jobPath(id, "apply"), nil, nil)
}

// List returns the last loaded page.
func (s *Jobs) List() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Job(nil), s.jobs...)
}

// Current returns the last loaded job.
func (s *Jobs) Current() domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.job
}

func (s *Jobs) setJobs(jobs []domain.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = jobs
}
