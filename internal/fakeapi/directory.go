package fakeapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/jobit-client/internal/auth"
	"github.com/spec-kit/jobit-client/internal/domain"
)

const pageSize = 20

var (
	errEmailTaken     = errors.New("email already exists")
	errJobNotFound    = errors.New("job not found")
	errJobForbidden   = errors.New("job access forbidden")
	errAlreadyApplied = errors.New("job already applied")
)

type account struct {
	user         domain.User
	passwordHash string
	companyID    *string
}

// directory is the in-memory backing data of the fake API.
type directory struct {
	mu        sync.RWMutex
	accounts  map[string]*account // by email
	jobs      map[string]*domain.Job
	companies map[string]domain.CompanyBasicInfo
	owners    map[string]string              // job id -> company id
	applied   map[string]map[string]struct{} // user id -> job ids
	cost      int
	now       func() time.Time
}

func newDirectory(cost int) *directory {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &directory{
		accounts:  map[string]*account{},
		jobs:      map[string]*domain.Job{},
		companies: map[string]domain.CompanyBasicInfo{},
		owners:    map[string]string{},
		applied:   map[string]map[string]struct{}{},
		cost:      cost,
		now:       time.Now,
	}
}

func (d *directory) addAccount(email, password, first, last string, role domain.Role, companyID *string) (*account, error) {
	hash, err := auth.HashPassword(password, d.cost)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(email)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.accounts[key]; exists {
		return nil, errEmailTaken
	}
	acc := &account{
		user: domain.User{
			ID:        uuid.NewString(),
			FirstName: first,
			LastName:  last,
			Email:     email,
			Role:      role,
		},
		passwordHash: hash,
		companyID:    companyID,
	}
	d.accounts[key] = acc
	return acc, nil
}

func (d *directory) authenticate(email, password string) (*account, bool) {
	d.mu.RLock()
	acc, ok := d.accounts[strings.ToLower(email)]
	d.mu.RUnlock()
	if !ok || auth.ComparePassword(acc.passwordHash, password) != nil {
		return nil, false
	}
	return acc, true
}

func (d *directory) emailTaken(email string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.accounts[strings.ToLower(email)]
	return ok
}

func (d *directory) userByID(id string) (domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, acc := range d.accounts {
		if acc.user.ID == id {
			return acc.user, true
		}
	}
	return domain.User{}, false
}

func (d *directory) createJob(companyID string, company domain.CompanyBasicInfo, draft domain.JobDraft) domain.Job {
	job := domain.Job{
		ID:                  uuid.NewString(),
		JobTitle:            draft.JobTitle,
		JobShortDescription: draft.JobShortDescription,
		Remote:              draft.Remote,
		EmploymentType:      draft.EmploymentType,
		SkillsRequired:      draft.SkillsRequired,
		SalaryRange:         draft.SalaryRange,
		CreatedAt:           d.now().UTC(),
		Company:             company,
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs[job.ID] = &job
	d.owners[job.ID] = companyID
	return job
}

func (d *directory) job(id string) (domain.Job, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	job, ok := d.jobs[id]
	if !ok {
		return domain.Job{}, errJobNotFound
	}
	return *job, nil
}

func (d *directory) deleteJob(companyID, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	owner, ok := d.owners[id]
	if !ok {
		return errJobNotFound
	}
	if owner != companyID {
		return errJobForbidden
	}
	delete(d.jobs, id)
	delete(d.owners, id)
	for _, set := range d.applied {
		delete(set, id)
	}
	return nil
}

func (d *directory) apply(userID, jobID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.jobs[jobID]; !ok {
		return errJobNotFound
	}
	set, ok := d.applied[userID]
	if !ok {
		set = map[string]struct{}{}
		d.applied[userID] = set
	}
	if _, dup := set[jobID]; dup {
		return errAlreadyApplied
	}
	set[jobID] = struct{}{}
	return nil
}

// search returns one page of jobs whose title or skills contain query, newest first.
// keep runs under the read lock and must not call back into d.
func (d *directory) search(query string, page int, keep func(domain.Job) bool) []domain.Job {
	q := strings.ToLower(strings.TrimSpace(query))

	d.mu.RLock()
	matches := make([]domain.Job, 0, len(d.jobs))
	for _, job := range d.jobs {
		if keep != nil && !keep(*job) {
			continue
		}
		if q == "" || matchesQuery(*job, q) {
			matches = append(matches, *job)
		}
	}
	d.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return paginate(matches, page)
}

// appliedJobs returns a copy of the job ids userID applied to.
func (d *directory) appliedJobs(userID string) map[string]struct{} {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]struct{}, len(d.applied[userID]))
	for id := range d.applied[userID] {
		out[id] = struct{}{}
	}
	return out
}

func matchesQuery(job domain.Job, q string) bool {
	if strings.Contains(strings.ToLower(job.JobTitle), q) {
		return true
	}
	for _, skill := range job.SkillsRequired {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func toApplication(job domain.Job, applied bool) domain.JobApplication {
	desc := job.JobShortDescription
	return domain.JobApplication{
		ID:                  job.ID,
		JobTitle:            job.JobTitle,
		JobShortDescription: &desc,
		Remote:              job.Remote,
		EmploymentType:      job.EmploymentType,
		Tags:                job.SkillsRequired,
		HasApplied:          applied,
		CreatedAt:           job.CreatedAt,
		Location:            job.Company.Location,
		CountryCode:         job.Company.CountryCode,
		CompanyName:         job.Company.Name,
	}
}

func (d *directory) addCompany(name, location, countryCode string) string {
	id := uuid.NewString()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.companies[id] = domain.CompanyBasicInfo{ID: &id, Name: name, Location: location, CountryCode: countryCode}
	return id
}

func (d *directory) company(id string) (domain.CompanyBasicInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.companies[id]
	return c, ok
}
