package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// CreateJobRequest is the job posting payload. SalaryRange is the
// string-encoded payout value; the money validator rejects non-decimal or
// negative values before any wallet is touched.
type CreateJobRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	SalaryRange string `json:"salaryRange" binding:"required,money"`
}

// JobResponse is a job as returned to clients.
type JobResponse struct {
	JobID       string    `json:"jobID"`
	CompanyID   string    `json:"companyID"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SalaryRange string    `json:"salaryRange"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToJobResponse converts a domain Job to its response DTO.
func ToJobResponse(j *domain.Job) JobResponse {
	return JobResponse{
		JobID:       j.JobID,
		CompanyID:   j.CompanyID,
		Title:       j.Title,
		Description: j.Description,
		SalaryRange: j.SalaryRange,
		Status:      string(j.Status),
		CreatedAt:   j.CreatedAt,
	}
}

// ListJobsParams holds pagination parameters for job listing.
type ListJobsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListJobsResponse is a page of jobs.
type ListJobsResponse struct {
	Jobs      []JobResponse `json:"jobs"`
	NextToken *string       `json:"nextToken,omitempty"`
}

// DeleteJobResult reports a job deletion. Warning is set when the deletion
// stood but the refund failed; the caller must show it instead of claiming
// full success.
type DeleteJobResult struct {
	JobID    string          `json:"jobID"`
	Deleted  bool            `json:"deleted"`
	Refunded decimal.Decimal `json:"refunded"`
	Warning  *string         `json:"warning,omitempty"`
}

// ApplicationResponse is a job application as returned to clients.
type ApplicationResponse struct {
	ApplicationID string    `json:"applicationID"`
	JobID         string    `json:"jobID"`
	WorkerID      string    `json:"workerID"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToApplicationResponse converts a domain Application to its response DTO.
func ToApplicationResponse(a *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ApplicationID: a.ApplicationID,
		JobID:         a.JobID,
		WorkerID:      a.WorkerID,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
	}
}
