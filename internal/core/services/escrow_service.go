package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
	"github.com/jobhive/jobhive_backend/internal/middleware"
)

// EscrowService orchestrates the hold lifecycle. The admin wallet is a single
// platform-wide row; every open and refund flows through it.
type EscrowService struct {
	escrowRepo  portsrepo.EscrowRepository
	userRepo    portsrepo.UserRepository
	notifier    portssvc.Notifier
	adminUserID string
	postingFee  decimal.Decimal
}

func NewEscrowService(escrowRepo portsrepo.EscrowRepository, userRepo portsrepo.UserRepository, notifier portssvc.Notifier, adminUserID string, postingFee decimal.Decimal) *EscrowService {
	return &EscrowService{
		escrowRepo:  escrowRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		adminUserID: adminUserID,
		postingFee:  postingFee,
	}
}

// Ensure EscrowService implements the facade
var _ portssvc.EscrowSvcFacade = (*EscrowService)(nil)

// PostingFee exposes the configured flat fee for refund computations.
func (s *EscrowService) PostingFee() decimal.Decimal {
	return s.postingFee
}

// OpenJobEscrow charges fee+value to the posting company and opens the hold
// for the job value. The job row is written in the same atomic unit, after
// the funds check.
func (s *EscrowService) OpenJobEscrow(ctx context.Context, job domain.Job) (*domain.Transaction, error) {
	if s.adminUserID == "" {
		return nil, fmt.Errorf("%w: admin wallet is not configured", apperrors.ErrValidation)
	}
	value, err := job.PayoutValue()
	if err != nil {
		return nil, err
	}

	hold, err := s.escrowRepo.OpenJobEscrow(ctx, job, job.CompanyID, s.adminUserID, s.postingFee, value)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Escrow opened",
		"job_id", job.JobID, "fee", s.postingFee.String(), "value", value.String(), "hold_id", hold.TransactionID)
	return hold, nil
}

// ReleaseToWorker resolves the job's hold and moves the held amount from the
// admin wallet to the worker. Idempotent in effect: the second call fails
// without moving money.
func (s *EscrowService) ReleaseToWorker(ctx context.Context, jobID string, workerUserID string, actorUserID string) (*domain.Transaction, error) {
	if s.adminUserID == "" {
		return nil, fmt.Errorf("%w: admin wallet is not configured", apperrors.ErrValidation)
	}

	payout, err := s.escrowRepo.ReleaseJobEscrow(ctx, jobID, workerUserID, s.adminUserID, actorUserID)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Escrow released to worker",
		"job_id", jobID, "worker_user_id", workerUserID, "amount", payout.Amount.String())

	s.notifyPayout(ctx, workerUserID, jobID, payout.Amount)
	return payout, nil
}

// RefundToCompany resolves the job's hold and refunds the company: the full
// value when work never started, value minus the flat fee otherwise.
func (s *EscrowService) RefundToCompany(ctx context.Context, jobID string, companyUserID string, value decimal.Decimal, workStarted bool, actorUserID string) (*domain.Transaction, decimal.Decimal, error) {
	if s.adminUserID == "" {
		return nil, decimal.Zero, fmt.Errorf("%w: admin wallet is not configured", apperrors.ErrValidation)
	}

	refund := domain.RefundAmount(value, s.postingFee, workStarted)
	txn, err := s.escrowRepo.RefundJobEscrow(ctx, jobID, companyUserID, s.adminUserID, refund, actorUserID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Escrow refunded to company",
		"job_id", jobID, "company_user_id", companyUserID, "refund", refund.String(), "work_started", workStarted)
	return txn, refund, nil
}

// notifyPayout sends a best-effort push to the paid worker. Runs in its own
// goroutine with a fresh timeout so a slow FCM round trip never delays the
// HTTP response, and a failure never unwinds the committed payout.
func (s *EscrowService) notifyPayout(ctx context.Context, workerUserID string, jobID string, amount decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	worker, err := s.userRepo.FindUserByID(ctx, workerUserID)
	if err != nil || worker.FCMToken == "" {
		return
	}
	token := worker.FCMToken

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := s.notifier.Send(sendCtx, token, "Payment received",
			fmt.Sprintf("You have been paid %s for a completed job.", amount),
			map[string]string{"job_id": jobID})
		if err != nil {
			logger.Warn("Payout notification failed", "job_id", jobID, "error", err.Error())
		}
	}()
}
