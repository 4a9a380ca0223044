package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
)

// database is the subset of *pgxpool.Pool the repositories run statements
// against. Keeping the field this narrow lets package tests swap in a fake
// store without a live server.
type database interface {
	queryExecer
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RetryPolicy bounds the retry loop for transient connectivity failures.
// Business-rule failures (insufficient funds, not found) are never retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy suits the admin-wallet contention profile: short, few.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, BaseDelay: 50 * time.Millisecond}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	return p
}

// BaseRepository provides common functionality for all repositories:
// transaction helpers and the centralized retrying executor wrapping
// connection acquisition.
type BaseRepository struct {
	Pool  database
	Retry RetryPolicy
}

// isTransient reports whether the error is a connectivity-class failure worth
// retrying: connection exceptions (class 08), pool exhaustion (53300) and
// admin shutdown (57P01), plus anything pgconn itself marks safe to retry.
func isTransient(err error) bool {
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return true
		}
		if pgErr.Code == "53300" || pgErr.Code == "57P01" {
			return true
		}
	}
	return false
}

// withRetry runs fn, retrying transient failures with exponential backoff.
// All retries honor ctx cancellation.
func (r *BaseRepository) withRetry(ctx context.Context, op string, fn func() error) error {
	policy := r.Retry.normalized()
	delay := policy.BaseDelay

	var err error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt == policy.MaxAttempts {
			break
		}
		slog.WarnContext(ctx, "Transient database error, retrying",
			slog.String("op", op), slog.Int("attempt", attempt), slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("%w: %s after %d attempts: %v", apperrors.ErrPersistence, op, policy.MaxAttempts, err)
}

// Begin starts a new database transaction, retrying transient acquisition
// failures.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	var tx pgx.Tx
	err := r.withRetry(ctx, "begin transaction", func() error {
		var beginErr error
		tx, beginErr = r.Pool.Begin(ctx)
		return beginErr
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Commit commits a transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

// Rollback rolls back a transaction. Safe to defer after a successful commit.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%w: failed to rollback transaction: %v", apperrors.ErrPersistence, err)
	}
	return nil
}
