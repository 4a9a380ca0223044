package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// TransactionRepository defines persistence operations for the append-only
// transaction log. Appending never mutates wallet balances; callers pair a
// log entry with the corresponding wallet adjustment inside one atomic unit.
type TransactionRepository interface {
	// SaveTransactionInTx inserts an immutable log entry within a caller-owned tx.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// FindHeldByJobID locates the open hold for a job. Returns
	// apperrors.ErrNoHeldFunds when no HELD entry exists.
	FindHeldByJobID(ctx context.Context, jobID string) (*domain.Transaction, error)

	// FindHeldByJobIDForUpdate is FindHeldByJobID with a row lock, within a
	// caller-owned tx, so two concurrent resolutions serialize.
	FindHeldByJobIDForUpdate(ctx context.Context, tx pgx.Tx, jobID string) (*domain.Transaction, error)

	// ResolveHoldInTx transitions HELD -> COMPLETED or HELD -> FAILED. Returns
	// apperrors.ErrAlreadyResolved when the current status is not HELD.
	ResolveHoldInTx(ctx context.Context, tx pgx.Tx, transactionID string, newStatus domain.TransactionStatus, toWalletID *string, userID string, now time.Time) error

	// ListTransactionsByUser returns entries where the user's wallet is either
	// party, most recent first, with a keyset pagination token.
	ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
