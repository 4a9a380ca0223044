package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// EscrowSvcFacade orchestrates the hold lifecycle around a job: open on
// posting, release to the worker on completion, refund to the company on
// deletion.
type EscrowSvcFacade interface {
	// OpenJobEscrow charges fee+value to the company, credits the admin
	// wallet, writes the job row, and opens the hold for the job value.
	// Returns the hold entry.
	OpenJobEscrow(ctx context.Context, job domain.Job) (*domain.Transaction, error)

	// ReleaseToWorker resolves the job's hold and credits the worker. A
	// second call for the same job fails with apperrors.ErrNoHeldFunds or
	// ErrAlreadyResolved and pays nothing.
	ReleaseToWorker(ctx context.Context, jobID string, workerUserID string, actorUserID string) (*domain.Transaction, error)

	// RefundToCompany resolves the job's hold and refunds the company: the
	// full value when work never started, value minus the flat fee otherwise.
	// Returns the refund entry and the refunded amount.
	RefundToCompany(ctx context.Context, jobID string, companyUserID string, value decimal.Decimal, workStarted bool, actorUserID string) (*domain.Transaction, decimal.Decimal, error)
}

// Notifier is a fire-and-forget push notification sink. Failures must never
// roll back or fail a financial transaction.
type Notifier interface {
	Send(ctx context.Context, fcmToken string, title string, body string, data map[string]string) error
}
