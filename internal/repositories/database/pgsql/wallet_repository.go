package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	"github.com/jobhive/jobhive_backend/internal/models"
	"github.com/jobhive/jobhive_backend/internal/utils/mapping"
)

const walletColumns = "wallet_id, user_id, balance, status, created_at, created_by, last_updated_at, last_updated_by"

type PgxWalletRepository struct {
	BaseRepository
}

// NewWalletRepository creates a new repository for wallet data.
func NewWalletRepository(pool *pgxpool.Pool, retry RetryPolicy) *PgxWalletRepository {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: pool, Retry: retry}}
}

// Ensure PgxWalletRepository implements portsrepo.WalletRepository
var _ portsrepo.WalletRepository = (*PgxWalletRepository)(nil)

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (domain.Wallet, error) {
	var m models.Wallet
	err := row.Scan(
		&m.WalletID,
		&m.UserID,
		&m.Balance,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Wallet{}, err
	}
	return mapping.ToDomainWallet(m), nil
}

// getOrCreateWallet inserts a zero-balance wallet unless one exists, then
// re-selects. The UNIQUE constraint on user_id plus ON CONFLICT DO NOTHING
// makes concurrent first-access create exactly one wallet.
func (r *PgxWalletRepository) getOrCreateWallet(ctx context.Context, q queryExecer, userID string, now time.Time) (*domain.Wallet, error) {
	insertQuery := `
		INSERT INTO wallets (wallet_id, user_id, balance, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, 0, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO NOTHING;
	`
	_, err := q.Exec(ctx, insertQuery,
		uuid.NewString(), userID, models.WalletActive, now, userID, now, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure wallet for user %s: %w", userID, err)
	}

	selectQuery := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1;`
	wallet, err := scanWallet(q.QueryRow(ctx, selectQuery, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet for user %s after ensure: %w", userID, err)
	}
	return &wallet, nil
}

// queryExecer is the subset of pgx shared by pool and tx.
type queryExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// GetOrCreateWallet returns the user's wallet, creating a zero-balance one on
// first financial interaction.
func (r *PgxWalletRepository) GetOrCreateWallet(ctx context.Context, userID string, now time.Time) (*domain.Wallet, error) {
	var wallet *domain.Wallet
	err := r.withRetry(ctx, "get or create wallet", func() error {
		var opErr error
		wallet, opErr = r.getOrCreateWallet(ctx, r.Pool, userID, now)
		return opErr
	})
	return wallet, err
}

// GetOrCreateWalletInTx is GetOrCreateWallet within a caller-owned tx.
func (r *PgxWalletRepository) GetOrCreateWalletInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (*domain.Wallet, error) {
	return r.getOrCreateWallet(ctx, tx, userID, now)
}

// FindWalletByUserID retrieves a wallet without creating one.
func (r *PgxWalletRepository) FindWalletByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1;`
	wallet, err := scanWallet(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

// FindWalletByID retrieves a wallet by its own id.
func (r *PgxWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1;`
	wallet, err := scanWallet(r.Pool.QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find wallet %s: %w", walletID, err)
	}
	return &wallet, nil
}

// FindWalletsForUpdate retrieves wallets by id and locks the rows.
// Must be called within a transaction; pass ids pre-sorted so concurrent
// flows acquire locks in the same order.
func (r *PgxWalletRepository) FindWalletsForUpdate(ctx context.Context, tx pgx.Tx, walletIDs []string) (map[string]domain.Wallet, error) {
	if len(walletIDs) == 0 {
		return map[string]domain.Wallet{}, nil
	}

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = ANY($1) ORDER BY wallet_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, walletIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets for update: %w", err)
	}
	defer rows.Close()

	wallets := make(map[string]domain.Wallet)
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked wallet row: %w", err)
		}
		wallets[wallet.WalletID] = wallet
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked wallet rows: %w", err)
	}

	if len(wallets) != len(walletIDs) {
		missing := []string{}
		for _, id := range walletIDs {
			if _, found := wallets[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some wallets requested for update lock were not found", "missing_wallets", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested wallets, missing: %v", apperrors.ErrNotFound, missing)
	}

	return wallets, nil
}

// AdjustWalletBalancesInTx applies signed deltas to already-locked wallet
// rows. The WHERE guard (and the table CHECK constraint behind it) rejects
// any delta that would drive a balance negative.
func (r *PgxWalletRepository) AdjustWalletBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}

	query := `
		UPDATE wallets
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE wallet_id = $1 AND balance + $2 >= 0;
	`

	// Deterministic order keeps batch results attributable.
	walletIDs := make([]string, 0, len(changes))
	for id, delta := range changes {
		if !delta.IsZero() {
			walletIDs = append(walletIDs, id)
		}
	}
	sort.Strings(walletIDs)
	if len(walletIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range walletIDs {
		batch.Queue(query, id, changes[id], now, userID)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check violation
					batchErr = fmt.Errorf("%w: wallet %s", apperrors.ErrInsufficientFunds, walletIDs[i])
				} else {
					batchErr = fmt.Errorf("failed to adjust balance for wallet %s: %w", walletIDs[i], err)
				}
			}
		} else if ct.RowsAffected() == 0 {
			// Rows were locked, so the wallet exists; zero rows means the
			// guard rejected a negative result.
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: wallet %s", apperrors.ErrInsufficientFunds, walletIDs[i])
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance adjustment batch: %w", err)
	}
	return batchErr
}

// AdjustWalletBalance applies one signed delta and inserts the paired log
// entry in a single database transaction, locking the wallet row first.
func (r *PgxWalletRepository) AdjustWalletBalance(ctx context.Context, userID string, delta decimal.Decimal, logEntry domain.Transaction) (*domain.Wallet, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	now := logEntry.CreatedAt
	wallet, err := r.GetOrCreateWalletInTx(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}
	locked, err := r.FindWalletsForUpdate(ctx, tx, []string{wallet.WalletID})
	if err != nil {
		return nil, err
	}
	current := locked[wallet.WalletID]

	newBalance := current.Balance.Add(delta)
	if newBalance.IsNegative() {
		return nil, fmt.Errorf("%w: balance %s, delta %s", apperrors.ErrInsufficientFunds, current.Balance, delta)
	}

	if err := r.AdjustWalletBalancesInTx(ctx, tx, map[string]decimal.Decimal{wallet.WalletID: delta}, logEntry.CreatedBy, now); err != nil {
		return nil, err
	}
	if err := insertTransaction(ctx, tx, logEntry); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	current.Balance = newBalance
	current.LastUpdatedAt = now
	current.LastUpdatedBy = logEntry.CreatedBy
	return &current, nil
}

// balanceSetEntry fills the log entry for an absolute balance set from the
// wallet row read under the lock, so the logged delta cannot misstate the
// move when another writer slipped in between read and set.
func balanceSetEntry(entry domain.Transaction, locked domain.Wallet, newBalance decimal.Decimal) domain.Transaction {
	delta := newBalance.Sub(locked.Balance)
	entry.Amount = delta.Abs()
	if delta.IsNegative() {
		entry.Type = domain.Withdrawal
		entry.FromWalletID = &locked.WalletID
	} else {
		entry.Type = domain.Deposit
		entry.ToWalletID = &locked.WalletID
	}
	return entry
}

// SetWalletBalance sets an absolute balance identified by user id or wallet
// id, pairing a log entry in the same database transaction. The entry's
// amount, type and direction are derived from the locked row; callers supply
// only description, status and audit fields.
func (r *PgxWalletRepository) SetWalletBalance(ctx context.Context, idOrWalletID string, newBalance decimal.Decimal, isWalletID bool, logEntry domain.Transaction) (*domain.Wallet, error) {
	if newBalance.IsNegative() {
		return nil, fmt.Errorf("%w: balance must not be negative", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE;`
	if isWalletID {
		lockQuery = `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1 FOR UPDATE;`
	}
	wallet, err := scanWallet(tx.QueryRow(ctx, lockQuery, idOrWalletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet %s: %w", idOrWalletID, err)
	}

	logEntry = balanceSetEntry(logEntry, wallet, newBalance)

	now := logEntry.CreatedAt
	updateQuery := `
		UPDATE wallets
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE wallet_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, wallet.WalletID, newBalance, now, logEntry.CreatedBy); err != nil {
		return nil, fmt.Errorf("failed to set balance for wallet %s: %w", wallet.WalletID, err)
	}
	if err := insertTransaction(ctx, tx, logEntry); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	wallet.Balance = newBalance
	wallet.LastUpdatedAt = now
	wallet.LastUpdatedBy = logEntry.CreatedBy
	return &wallet, nil
}
