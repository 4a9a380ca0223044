package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
)

// PgxEscrowRepository implements the three multi-step ledger flows. It leans
// on the wallet, transaction and job repositories for the individual steps
// and owns the database transaction that binds them.
type PgxEscrowRepository struct {
	BaseRepository
	walletRepo portsrepo.WalletRepository
	txnRepo    portsrepo.TransactionRepository
	jobRepo    portsrepo.JobRepository
}

// NewEscrowRepository creates a new repository for escrow flows.
func NewEscrowRepository(pool *pgxpool.Pool, retry RetryPolicy, walletRepo portsrepo.WalletRepository, txnRepo portsrepo.TransactionRepository, jobRepo portsrepo.JobRepository) *PgxEscrowRepository {
	return &PgxEscrowRepository{
		BaseRepository: BaseRepository{Pool: pool, Retry: retry},
		walletRepo:     walletRepo,
		txnRepo:        txnRepo,
		jobRepo:        jobRepo,
	}
}

// Ensure PgxEscrowRepository implements portsrepo.EscrowRepository
var _ portsrepo.EscrowRepository = (*PgxEscrowRepository)(nil)

// lockOrder returns wallet ids sorted ascending. Every escrow flow acquires
// its FOR UPDATE locks in this order so concurrent flows touching the same
// wallets (the admin wallet above all) cannot deadlock.
func lockOrder(walletIDs ...string) []string {
	ids := append([]string(nil), walletIDs...)
	sort.Strings(ids)
	return ids
}

// OpenJobEscrow posts a job and escrows its funds as one atomic unit. The
// funds check happens after the wallet rows are locked, so the balance read
// cannot go stale; the job row is only written once the check passes.
func (r *PgxEscrowRepository) OpenJobEscrow(ctx context.Context, job domain.Job, companyUserID string, adminUserID string, fee decimal.Decimal, value decimal.Decimal) (*domain.Transaction, error) {
	total := fee.Add(value)
	now := job.CreatedAt

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	companyWallet, err := r.walletRepo.GetOrCreateWalletInTx(ctx, tx, companyUserID, now)
	if err != nil {
		return nil, err
	}
	adminWallet, err := r.walletRepo.GetOrCreateWalletInTx(ctx, tx, adminUserID, now)
	if err != nil {
		return nil, err
	}

	locked, err := r.walletRepo.FindWalletsForUpdate(ctx, tx, lockOrder(companyWallet.WalletID, adminWallet.WalletID))
	if err != nil {
		return nil, err
	}
	company := locked[companyWallet.WalletID]
	if company.Status == domain.WalletBlocked {
		return nil, fmt.Errorf("%w: company wallet %s", apperrors.ErrWalletBlocked, company.WalletID)
	}
	if company.Balance.LessThan(total) {
		return nil, fmt.Errorf("%w: need %s (fee %s + value %s), have %s",
			apperrors.ErrInsufficientFunds, total, fee, value, company.Balance)
	}

	if err := r.jobRepo.SaveJobInTx(ctx, tx, job); err != nil {
		return nil, err
	}

	changes := map[string]decimal.Decimal{
		companyWallet.WalletID: total.Neg(),
		adminWallet.WalletID:   total,
	}
	if err := r.walletRepo.AdjustWalletBalancesInTx(ctx, tx, changes, companyUserID, now); err != nil {
		return nil, err
	}

	payment := domain.Transaction{
		TransactionID: uuid.NewString(),
		FromWalletID:  &companyWallet.WalletID,
		ToWalletID:    &adminWallet.WalletID,
		Amount:        total,
		Type:          domain.Payment,
		Status:        domain.StatusCompleted,
		Description:   fmt.Sprintf("Job posting: fee %s plus escrowed value %s for %q", fee, value, job.Title),
		JobID:         &job.JobID,
		AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: companyUserID, LastUpdatedAt: now, LastUpdatedBy: companyUserID},
	}
	if err := r.txnRepo.SaveTransactionInTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	// The hold carries the job value only; the fee is already settled and is
	// never returned through the hold.
	hold := domain.Transaction{
		TransactionID: uuid.NewString(),
		FromWalletID:  &companyWallet.WalletID,
		ToWalletID:    nil,
		Amount:        value,
		Type:          domain.Hold,
		Status:        domain.StatusHeld,
		Description:   fmt.Sprintf("Escrow hold for job %q", job.Title),
		JobID:         &job.JobID,
		AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: companyUserID, LastUpdatedAt: now, LastUpdatedBy: companyUserID},
	}
	if err := r.txnRepo.SaveTransactionInTx(ctx, tx, hold); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &hold, nil
}

// ReleaseJobEscrow pays the worker out of the job's hold. The held amount
// leaves the admin wallet, which has custodied it since the open, so the
// ledger total stays constant. The hold row lock serializes concurrent
// releases; only the first sees status HELD.
func (r *PgxEscrowRepository) ReleaseJobEscrow(ctx context.Context, jobID string, workerUserID string, adminUserID string, actorUserID string) (*domain.Transaction, error) {
	now := time.Now()

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	hold, err := r.txnRepo.FindHeldByJobIDForUpdate(ctx, tx, jobID)
	if err != nil {
		return nil, err
	}
	if !hold.IsResolvable() {
		return nil, fmt.Errorf("%w: hold for job %s was resolved at %s", apperrors.ErrAlreadyResolved, jobID, hold.LastUpdatedAt.Format(time.RFC3339))
	}

	workerWallet, err := r.walletRepo.GetOrCreateWalletInTx(ctx, tx, workerUserID, now)
	if err != nil {
		return nil, err
	}
	adminWallet, err := r.walletRepo.GetOrCreateWalletInTx(ctx, tx, adminUserID, now)
	if err != nil {
		return nil, err
	}
	locked, err := r.walletRepo.FindWalletsForUpdate(ctx, tx, lockOrder(workerWallet.WalletID, adminWallet.WalletID))
	if err != nil {
		return nil, err
	}
	worker := locked[workerWallet.WalletID]
	if worker.Status == domain.WalletBlocked {
		return nil, fmt.Errorf("%w: worker wallet %s", apperrors.ErrWalletBlocked, worker.WalletID)
	}

	if err := r.txnRepo.ResolveHoldInTx(ctx, tx, hold.TransactionID, domain.StatusCompleted, &workerWallet.WalletID, actorUserID, now); err != nil {
		return nil, err
	}

	changes := map[string]decimal.Decimal{
		adminWallet.WalletID:  hold.Amount.Neg(),
		workerWallet.WalletID: hold.Amount,
	}
	if err := r.walletRepo.AdjustWalletBalancesInTx(ctx, tx, changes, actorUserID, now); err != nil {
		return nil, err
	}

	payout := domain.Transaction{
		TransactionID: uuid.NewString(),
		FromWalletID:  &adminWallet.WalletID,
		ToWalletID:    &workerWallet.WalletID,
		Amount:        hold.Amount,
		Type:          domain.Payment,
		Status:        domain.StatusCompleted,
		Description:   fmt.Sprintf("Payout of escrowed funds for job %s", jobID),
		JobID:         &jobID,
		AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: actorUserID, LastUpdatedAt: now, LastUpdatedBy: actorUserID},
	}
	if err := r.txnRepo.SaveTransactionInTx(ctx, tx, payout); err != nil {
		return nil, err
	}

	if err := r.jobRepo.UpdateJobStatusInTx(ctx, tx, jobID, domain.JobCompleted, actorUserID, now); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &payout, nil
}

// RefundJobEscrow returns refund to the company out of the admin wallet and
// marks the hold FAILED. Runs after the job row was already deleted, in its
// own transaction; the caller reports a failure here as a warning.
func (r *PgxEscrowRepository) RefundJobEscrow(ctx context.Context, jobID string, companyUserID string, adminUserID string, refund decimal.Decimal, actorUserID string) (*domain.Transaction, error) {
	if refund.IsNegative() {
		return nil, fmt.Errorf("%w: refund amount must not be negative", apperrors.ErrValidation)
	}
	now := time.Now()

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	hold, err := r.txnRepo.FindHeldByJobIDForUpdate(ctx, tx, jobID)
	if err != nil {
		return nil, err
	}
	if !hold.IsResolvable() {
		return nil, fmt.Errorf("%w: hold for job %s was resolved at %s", apperrors.ErrAlreadyResolved, jobID, hold.LastUpdatedAt.Format(time.RFC3339))
	}
	if refund.GreaterThan(hold.Amount) {
		return nil, fmt.Errorf("%w: refund %s exceeds held amount %s", apperrors.ErrValidation, refund, hold.Amount)
	}

	companyWallet, err := r.walletRepo.GetOrCreateWalletInTx(ctx, tx, companyUserID, now)
	if err != nil {
		return nil, err
	}
	adminWallet, err := r.walletRepo.GetOrCreateWalletInTx(ctx, tx, adminUserID, now)
	if err != nil {
		return nil, err
	}
	if _, err := r.walletRepo.FindWalletsForUpdate(ctx, tx, lockOrder(companyWallet.WalletID, adminWallet.WalletID)); err != nil {
		return nil, err
	}

	if err := r.txnRepo.ResolveHoldInTx(ctx, tx, hold.TransactionID, domain.StatusFailed, nil, actorUserID, now); err != nil {
		return nil, err
	}

	if refund.IsPositive() {
		changes := map[string]decimal.Decimal{
			adminWallet.WalletID:   refund.Neg(),
			companyWallet.WalletID: refund,
		}
		if err := r.walletRepo.AdjustWalletBalancesInTx(ctx, tx, changes, actorUserID, now); err != nil {
			return nil, err
		}
	}

	refundTxn := domain.Transaction{
		TransactionID: uuid.NewString(),
		FromWalletID:  &adminWallet.WalletID,
		ToWalletID:    &companyWallet.WalletID,
		Amount:        refund,
		Type:          domain.Refund,
		Status:        domain.StatusCompleted,
		Description:   fmt.Sprintf("Refund of escrowed funds for deleted job %s", jobID),
		JobID:         &jobID,
		AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: actorUserID, LastUpdatedAt: now, LastUpdatedBy: actorUserID},
	}
	if err := r.txnRepo.SaveTransactionInTx(ctx, tx, refundTxn); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &refundTxn, nil
}
