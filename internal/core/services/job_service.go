package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
	"github.com/jobhive/jobhive_backend/internal/dto"
	"github.com/jobhive/jobhive_backend/internal/middleware"
)

// JobService drives the job lifecycle and the ledger events it triggers.
type JobService struct {
	jobRepo  portsrepo.JobRepository
	userRepo portsrepo.UserRepository
	escrow   portssvc.EscrowSvcFacade
}

func NewJobService(jobRepo portsrepo.JobRepository, userRepo portsrepo.UserRepository, escrow portssvc.EscrowSvcFacade) *JobService {
	return &JobService{jobRepo: jobRepo, userRepo: userRepo, escrow: escrow}
}

// Ensure JobService implements the facade
var _ portssvc.JobSvcFacade = (*JobService)(nil)

// CreateJob validates the posting company, then opens the escrow. The job row
// and all ledger writes commit together; an insufficient balance leaves no
// trace of the job.
func (s *JobService) CreateJob(ctx context.Context, req dto.CreateJobRequest, companyID string) (*domain.Job, error) {
	company, err := s.userRepo.FindUserByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.Role != domain.RoleCompany {
		return nil, fmt.Errorf("%w: only companies can post jobs", apperrors.ErrForbidden)
	}

	now := time.Now()
	job := domain.Job{
		JobID:       uuid.NewString(),
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
		SalaryRange: req.SalaryRange,
		Status:      domain.JobOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     companyID,
			LastUpdatedAt: now,
			LastUpdatedBy: companyID,
		},
	}
	if _, err := job.PayoutValue(); err != nil {
		return nil, err
	}

	if _, err := s.escrow.OpenJobEscrow(ctx, job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) GetJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.jobRepo.FindJobByID(ctx, jobID)
}

func (s *JobService) ListJobsByCompany(ctx context.Context, companyID string, params dto.ListJobsParams) (*dto.ListJobsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	jobs, nextToken, err := s.jobRepo.ListJobsByCompany(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	resp := &dto.ListJobsResponse{NextToken: nextToken, Jobs: make([]dto.JobResponse, len(jobs))}
	for i := range jobs {
		resp.Jobs[i] = dto.ToJobResponse(&jobs[i])
	}
	return resp, nil
}

// DeleteJob removes the job, then refunds the company out of escrow. The
// deletion and the refund are separate commits: when the refund fails after
// the job row is already gone, the result reports the deletion as done and
// carries a warning instead of failing the call. The unresolved hold stays in
// the ledger for reconciliation.
func (s *JobService) DeleteJob(ctx context.Context, jobID string, actorUserID string) (*dto.DeleteJobResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && job.CompanyID != actorUserID {
		return nil, fmt.Errorf("%w: only the posting company or an admin can delete a job", apperrors.ErrForbidden)
	}
	if job.Status == domain.JobCompleted {
		return nil, fmt.Errorf("%w: job %s is already completed", apperrors.ErrValidation, jobID)
	}

	value, err := job.PayoutValue()
	if err != nil {
		return nil, err
	}
	workStarted, err := s.jobRepo.HasStartedApplication(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.DeleteJob(ctx, jobID); err != nil {
		return nil, err
	}

	result := &dto.DeleteJobResult{JobID: jobID, Deleted: true, Refunded: decimal.Zero}

	_, refunded, err := s.escrow.RefundToCompany(ctx, jobID, job.CompanyID, value, workStarted, actorUserID)
	if err != nil {
		pf := &apperrors.PartialFailureError{Completed: fmt.Sprintf("job %s deleted", jobID), Err: err}
		logger.Error("Job deleted but refund failed, hold left unresolved",
			"job_id", jobID, "company_user_id", job.CompanyID, "error", err.Error())
		warning := pf.Error()
		result.Warning = &warning
		return result, nil
	}

	result.Refunded = refunded
	return result, nil
}

// ApplyToJob creates a PENDING application from a worker to an open job.
func (s *JobService) ApplyToJob(ctx context.Context, jobID string, workerID string) (*domain.Application, error) {
	worker, err := s.userRepo.FindUserByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker.Role != domain.RoleWorker {
		return nil, fmt.Errorf("%w: only workers can apply to jobs", apperrors.ErrForbidden)
	}

	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobOpen {
		return nil, fmt.Errorf("%w: job %s is not open for applications", apperrors.ErrValidation, jobID)
	}

	now := time.Now()
	app := domain.Application{
		ApplicationID: uuid.NewString(),
		JobID:         jobID,
		WorkerID:      workerID,
		Status:        domain.ApplicationPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     workerID,
			LastUpdatedAt: now,
			LastUpdatedBy: workerID,
		},
	}
	if err := s.jobRepo.SaveApplication(ctx, app); err != nil {
		return nil, err
	}
	return &app, nil
}

// AcceptApplication moves an application PENDING -> ACTIVE and the job
// OPEN -> IN_PROGRESS. From this point a deletion refund carries the fee
// penalty.
func (s *JobService) AcceptApplication(ctx context.Context, applicationID string, actorUserID string) (*domain.Application, error) {
	app, err := s.jobRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindJobByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != actorUserID {
		return nil, fmt.Errorf("%w: only the posting company can accept applications", apperrors.ErrForbidden)
	}
	if app.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w: application %s is %s, expected PENDING", apperrors.ErrValidation, applicationID, app.Status)
	}

	now := time.Now()
	if err := s.jobRepo.UpdateApplicationStatus(ctx, applicationID, domain.ApplicationActive, actorUserID, now); err != nil {
		return nil, err
	}
	if job.Status == domain.JobOpen {
		if err := s.jobRepo.UpdateJobStatus(ctx, job.JobID, domain.JobInProgress, actorUserID, now); err != nil {
			return nil, err
		}
	}

	app.Status = domain.ApplicationActive
	app.LastUpdatedAt = now
	app.LastUpdatedBy = actorUserID
	return app, nil
}

// CompleteApplication marks the work done and releases the hold to the
// worker. The payout, hold resolution, and job COMPLETED transition commit
// atomically inside the escrow release.
func (s *JobService) CompleteApplication(ctx context.Context, applicationID string, actorUserID string) (*domain.Application, error) {
	app, err := s.jobRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindJobByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && job.CompanyID != actorUserID {
		return nil, fmt.Errorf("%w: only the posting company or an admin can complete a job", apperrors.ErrForbidden)
	}
	if app.Status != domain.ApplicationActive {
		return nil, fmt.Errorf("%w: application %s is %s, expected ACTIVE", apperrors.ErrValidation, applicationID, app.Status)
	}

	if _, err := s.escrow.ReleaseToWorker(ctx, app.JobID, app.WorkerID, actorUserID); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.jobRepo.UpdateApplicationStatus(ctx, applicationID, domain.ApplicationCompleted, actorUserID, now); err != nil {
		// The payout already committed; the application status lag is
		// recoverable and must not surface as a payment failure.
		middleware.GetLoggerFromCtx(ctx).Error("Payout committed but application status update failed",
			"application_id", applicationID, "error", err.Error())
	}

	app.Status = domain.ApplicationCompleted
	app.LastUpdatedAt = now
	app.LastUpdatedBy = actorUserID
	return app, nil
}
