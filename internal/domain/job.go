package domain

import "time"

// EmploymentType enumerates job contract kinds.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "Full-time"
	EmploymentPartTime EmploymentType = "Part-time"
	EmploymentContract EmploymentType = "Contract"
)

// CompanyBasicInfo is the company summary embedded in job listings.
type CompanyBasicInfo struct {
	ID          *string `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	CountryCode string  `json:"country_code"`
	LogoURL     *string `json:"logo_url"`
}

// Job is a public job listing.
type Job struct {
	ID                  string           `json:"id"`
	JobTitle            string           `json:"job_title"`
	JobShortDescription string           `json:"job_short_description"`
	Remote              bool             `json:"remote"`
	EmploymentType      EmploymentType   `json:"employment_type"`
	SkillsRequired      []string         `json:"skills_required"`
	SalaryRange         string           `json:"salary_range"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           *time.Time       `json:"updated_at"`
	ExpiresAt           *time.Time       `json:"expires_at"`
	Company             CompanyBasicInfo `json:"company"`
}

// JobDraft is the payload used to create or update a job.
type JobDraft struct {
	JobTitle            string         `json:"job_title"`
	JobShortDescription string         `json:"job_short_description"`
	Remote              bool           `json:"remote"`
	EmploymentType      EmploymentType `json:"employment_type"`
	SkillsRequired      []string       `json:"skills_required"`
	SalaryRange         string         `json:"salary_range"`
}

// JobApplication is a job as seen by a candidate, with application state.
type JobApplication struct {
	ID                  string         `json:"id"`
	JobTitle            string         `json:"job_title"`
	JobShortDescription *string        `json:"job_short_description"`
	Remote              bool           `json:"remote"`
	EmploymentType      EmploymentType `json:"employment_type"`
	Tags                []string       `json:"tags"`
	SalaryMin           string         `json:"salary_min"`
	SalaryMax           string         `json:"salary_max"`
	CurrencyCode        string         `json:"currency_code"`
	HasApplied          bool           `json:"has_applied"`
	CreatedAt           time.Time      `json:"created_at"`
	Location            string         `json:"location"`
	CountryCode         string         `json:"country_code"`
	CompanyName         string         `json:"company_name"`
	SimilarityScore     *float64       `json:"similarity_score"`
}
