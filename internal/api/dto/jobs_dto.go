package dto

import "github.com/spec-kit/jobit-client/internal/domain"

// PageQuery captures the paged listing filters.
type PageQuery struct {
	Query string `query:"query"`
	Page  int    `query:"page"`
}

// JobPage is one page of job listings.
type JobPage struct {
	Query string       `json:"query"`
	Page  int          `json:"page"`
	Items []domain.Job `json:"items"`
}

// JobDetail is a job with its related listings.
type JobDetail struct {
	Job     domain.Job   `json:"job"`
	Related []domain.Job `json:"related"`
}

// ApplicationPage is one page of applications or recommendations.
type ApplicationPage struct {
	Query string                  `json:"query"`
	Page  int                     `json:"page"`
	Items []domain.JobApplication `json:"items"`
}
