package services

import (
	"context"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
	"github.com/jobhive/jobhive_backend/internal/dto"
)

// JobSvcFacade drives the job lifecycle and the ledger events it triggers.
type JobSvcFacade interface {
	// CreateJob validates the company, opens the escrow (fee charge + hold)
	// and writes the job row, all before returning.
	CreateJob(ctx context.Context, req dto.CreateJobRequest, companyID string) (*domain.Job, error)

	GetJobByID(ctx context.Context, jobID string) (*domain.Job, error)

	ListJobsByCompany(ctx context.Context, companyID string, params dto.ListJobsParams) (*dto.ListJobsResponse, error)

	// DeleteJob removes the job and refunds the company. When the refund
	// fails after the deletion already committed, the result carries a
	// warning instead of the call failing (documented partial-failure
	// carve-out).
	DeleteJob(ctx context.Context, jobID string, actorUserID string) (*dto.DeleteJobResult, error)

	ApplyToJob(ctx context.Context, jobID string, workerID string) (*domain.Application, error)

	// AcceptApplication moves PENDING -> ACTIVE; from then on a deletion
	// refund carries the fee penalty.
	AcceptApplication(ctx context.Context, applicationID string, actorUserID string) (*domain.Application, error)

	// CompleteApplication marks the work done and releases the hold to the
	// worker.
	CompleteApplication(ctx context.Context, applicationID string, actorUserID string) (*domain.Application, error)
}
