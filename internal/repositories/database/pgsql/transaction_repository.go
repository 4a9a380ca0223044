package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	"github.com/jobhive/jobhive_backend/internal/models"
	"github.com/jobhive/jobhive_backend/internal/utils/mapping"
	"github.com/jobhive/jobhive_backend/internal/utils/pagination"
)

const transactionColumns = "transaction_id, from_wallet_id, to_wallet_id, amount, type, status, description, job_id, created_at, created_by, last_updated_at, last_updated_by"

type PgxTransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for the transaction log.
func NewTransactionRepository(pool *pgxpool.Pool, retry RetryPolicy) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool, Retry: retry}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepository
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.FromWalletID,
		&m.ToWalletID,
		&m.Amount,
		&m.Type,
		&m.Status,
		&m.Description,
		&m.JobID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	return mapping.ToDomainTransaction(m), nil
}

// insertTransaction appends an immutable log entry using the given executor.
func insertTransaction(ctx context.Context, q queryExecer, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, from_wallet_id, to_wallet_id, amount, type, status, description, job_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := q.Exec(ctx, query,
		m.TransactionID, m.FromWalletID, m.ToWalletID, m.Amount, m.Type, m.Status,
		m.Description, m.JobID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// SaveTransactionInTx inserts an immutable log entry within a caller-owned tx.
func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	return insertTransaction(ctx, tx, txn)
}

func (r *PgxTransactionRepository) findHoldByJobID(ctx context.Context, q queryExecer, jobID string, forUpdate bool) (*domain.Transaction, error) {
	// The hold row is looked up by type, not status, so a resolved hold is
	// still found and can be reported as already resolved.
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE job_id = $1 AND type = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	txn, err := scanTransaction(q.QueryRow(ctx, query+`;`, jobID, models.TransactionType(domain.Hold)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no hold recorded for job %s", apperrors.ErrNoHeldFunds, jobID)
		}
		return nil, fmt.Errorf("failed to find hold for job %s: %w", jobID, err)
	}
	return &txn, nil
}

// FindHeldByJobID locates the hold entry for a job without locking it.
func (r *PgxTransactionRepository) FindHeldByJobID(ctx context.Context, jobID string) (*domain.Transaction, error) {
	return r.findHoldByJobID(ctx, r.Pool, jobID, false)
}

// FindHeldByJobIDForUpdate locates and locks the hold entry for a job so
// concurrent resolutions serialize on the row.
func (r *PgxTransactionRepository) FindHeldByJobIDForUpdate(ctx context.Context, tx pgx.Tx, jobID string) (*domain.Transaction, error) {
	return r.findHoldByJobID(ctx, tx, jobID, true)
}

// ResolveHoldInTx transitions a HELD entry to its terminal status. The status
// guard in the WHERE clause makes resolution idempotent-safe: a second
// attempt matches zero rows and reports ErrAlreadyResolved.
func (r *PgxTransactionRepository) ResolveHoldInTx(ctx context.Context, tx pgx.Tx, transactionID string, newStatus domain.TransactionStatus, toWalletID *string, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, to_wallet_id = COALESCE($3, to_wallet_id), last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1 AND status = $6;
	`
	ct, err := tx.Exec(ctx, query, transactionID, models.TransactionStatus(newStatus), toWalletID, now, userID, models.TransactionStatus(domain.StatusHeld))
	if err != nil {
		return fmt.Errorf("failed to resolve hold %s: %w", transactionID, err)
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1);`, transactionID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check hold %s: %w", transactionID, err)
		}
		if !exists {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return fmt.Errorf("%w: hold %s is no longer HELD", apperrors.ErrAlreadyResolved, transactionID)
	}
	return nil
}

// ListTransactionsByUser returns log entries where the user's wallet is either
// party, most recent first. Keyset pagination on (created_at, transaction_id)
// keeps pages stable while new entries are appended.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE (t.from_wallet_id IN (SELECT wallet_id FROM wallets WHERE user_id = $1)
		   OR  t.to_wallet_id   IN (SELECT wallet_id FROM wallets WHERE user_id = $1))
	`
	args := []any{userID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (t.created_at, t.transaction_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}

	query += fmt.Sprintf(` ORDER BY t.created_at DESC, t.transaction_id DESC LIMIT %d;`, limit+1)

	var txns []domain.Transaction
	err := r.withRetry(ctx, "list transactions", func() error {
		rows, err := r.Pool.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query transactions for user %s: %w", userID, err)
		}
		defer rows.Close()

		txns = txns[:0]
		for rows.Next() {
			txn, err := scanTransaction(rows)
			if err != nil {
				return fmt.Errorf("failed to scan transaction row: %w", err)
			}
			txns = append(txns, txn)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &t
	}
	return txns, token, nil
}
