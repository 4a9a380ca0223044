package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// WalletRepository defines persistence operations for per-user wallets.
//
// The InTx variants participate in a caller-owned database transaction; the
// escrow repository composes them so that every balance mutation commits
// atomically with its transaction-log entry.
type WalletRepository interface {
	// GetOrCreateWallet returns the user's wallet, creating a zero-balance one
	// if none exists. Safe under concurrent first-access (unique user_id +
	// ON CONFLICT DO NOTHING + re-select).
	GetOrCreateWallet(ctx context.Context, userID string, now time.Time) (*domain.Wallet, error)

	// GetOrCreateWalletInTx is GetOrCreateWallet inside a caller-owned tx,
	// used by the escrow flows that lazily create wallets mid-flight.
	GetOrCreateWalletInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (*domain.Wallet, error)

	// FindWalletByUserID returns apperrors.ErrNotFound when the user has no
	// wallet yet; it never creates one (cheap display path).
	FindWalletByUserID(ctx context.Context, userID string) (*domain.Wallet, error)

	FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error)

	// FindWalletsForUpdate locks the given wallet rows (SELECT ... FOR UPDATE).
	// Must be called within a transaction; callers pass walletIDs sorted so
	// concurrent flows acquire locks in the same order.
	FindWalletsForUpdate(ctx context.Context, tx pgx.Tx, walletIDs []string) (map[string]domain.Wallet, error)

	// AdjustWalletBalancesInTx applies signed deltas to locked wallet rows.
	// Returns apperrors.ErrInsufficientFunds when a negative delta would drive
	// a balance below zero.
	AdjustWalletBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error

	// AdjustWalletBalance applies one signed delta and inserts the paired
	// transaction-log entry in a single database transaction.
	AdjustWalletBalance(ctx context.Context, userID string, delta decimal.Decimal, logEntry domain.Transaction) (*domain.Wallet, error)

	// SetWalletBalance sets an absolute balance (identified by user id or by
	// wallet id) with the same non-negativity guard, pairing a log entry in
	// the same database transaction. The entry's amount, type and direction
	// are derived from the balance read under the row lock; the caller's
	// entry carries description, status and audit fields only.
	SetWalletBalance(ctx context.Context, idOrWalletID string, newBalance decimal.Decimal, isWalletID bool, logEntry domain.Transaction) (*domain.Wallet, error)
}
