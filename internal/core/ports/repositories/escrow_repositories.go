package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// EscrowRepository owns the three multi-step ledger flows. Each method runs
// as a single database transaction with FOR UPDATE locks on every wallet row
// it mutates (locked in sorted wallet-id order), so a failure at any step
// rolls back all wallet and log changes together.
type EscrowRepository interface {
	// OpenJobEscrow posts a job: locks the company and admin wallets, verifies
	// balance >= fee+value (apperrors.ErrInsufficientFunds aborts before the
	// job row is written), inserts the job, moves fee+value company -> admin
	// with one completed PAYMENT entry, and inserts the HELD HOLD entry for
	// the job value alone. Returns the hold entry.
	OpenJobEscrow(ctx context.Context, job domain.Job, companyUserID string, adminUserID string, fee decimal.Decimal, value decimal.Decimal) (*domain.Transaction, error)

	// ReleaseJobEscrow resolves the job's hold to COMPLETED, moves the held
	// amount from the admin wallet (which has custodied fee+value since the
	// open) to the worker wallet (created lazily), appends the completed
	// PAYMENT entry, and marks the job COMPLETED. Across an open plus a
	// release the admin wallet nets exactly the fee. A hold that is absent or
	// no longer HELD yields apperrors.ErrNoHeldFunds / ErrAlreadyResolved and
	// no money moves.
	ReleaseJobEscrow(ctx context.Context, jobID string, workerUserID string, adminUserID string, actorUserID string) (*domain.Transaction, error)

	// RefundJobEscrow resolves the job's hold to FAILED, credits the company
	// wallet by refund, debits the admin wallet by the same amount, and
	// appends the completed REFUND entry. Called after the job row was
	// deleted; the caller converts a failure here into a partial-failure
	// warning rather than rolling the deletion back.
	RefundJobEscrow(ctx context.Context, jobID string, companyUserID string, adminUserID string, refund decimal.Decimal, actorUserID string) (*domain.Transaction, error)
}
