package models

// JobStatus mirrors domain.JobStatus at the storage layer.
type JobStatus string

// Job maps to the jobs table. salary_range stays string-encoded; the ledger
// parses it at its boundary.
type Job struct {
	JobID       string    `json:"jobID"`
	CompanyID   string    `json:"companyID"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SalaryRange string    `json:"salaryRange"`
	Status      JobStatus `json:"status"`
	AuditFields
}

// ApplicationStatus mirrors domain.ApplicationStatus at the storage layer.
type ApplicationStatus string

// Application maps to the applications table.
type Application struct {
	ApplicationID string            `json:"applicationID"`
	JobID         string            `json:"jobID"`
	WorkerID      string            `json:"workerID"`
	Status        ApplicationStatus `json:"status"`
	AuditFields
}
