package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// JobRepository defines persistence for jobs and applications as they
// intersect the ledger.
type JobRepository interface {
	// SaveJobInTx inserts the job row within a caller-owned tx (the escrow
	// open flow writes the job only after the funds check passes).
	SaveJobInTx(ctx context.Context, tx pgx.Tx, job domain.Job) error

	FindJobByID(ctx context.Context, jobID string) (*domain.Job, error)

	ListJobsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Job, *string, error)

	UpdateJobStatusInTx(ctx context.Context, tx pgx.Tx, jobID string, status domain.JobStatus, userID string, now time.Time) error

	// UpdateJobStatus is the standalone variant for transitions that carry no
	// ledger side effects (OPEN -> IN_PROGRESS on acceptance).
	UpdateJobStatus(ctx context.Context, jobID string, status domain.JobStatus, userID string, now time.Time) error

	// DeleteJob removes the job row (and its applications) in its own
	// committed transaction; the refund that follows is deliberately separate
	// per the partial-failure policy.
	DeleteJob(ctx context.Context, jobID string) error

	SaveApplication(ctx context.Context, app domain.Application) error

	FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error)

	UpdateApplicationStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, userID string, now time.Time) error

	// HasStartedApplication reports whether any application for the job ever
	// reached ACTIVE or COMPLETED; drives the deletion refund penalty.
	HasStartedApplication(ctx context.Context, jobID string) (bool, error)

	ListApplicationsByJob(ctx context.Context, jobID string) ([]domain.Application, error)
}
