package pgsql

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
)

// fakeDB and fakeTx satisfy the database seam so the escrow flows can run
// against memStore instead of a live server. The SQL-facing methods are never
// reached: every statement goes through the injected repository ports.
type fakeDB struct{}

func (fakeDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }
func (fakeTx) Commit(ctx context.Context) error          { return nil }
func (fakeTx) Rollback(ctx context.Context) error        { return nil }
func (fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (fakeTx) Conn() *pgx.Conn                                              { return nil }

// memStore backs all three repository ports with in-process state, mirroring
// the error contracts of the real implementations so the escrow flows can be
// exercised end to end on actual balances.
type memStore struct {
	wallets map[string]*domain.Wallet // by wallet id
	byUser  map[string]string         // user id -> wallet id
	txns    []domain.Transaction
	jobs    map[string]*domain.Job
}

var (
	_ portsrepo.WalletRepository      = (*memStore)(nil)
	_ portsrepo.TransactionRepository = (*memStore)(nil)
	_ portsrepo.JobRepository         = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		wallets: make(map[string]*domain.Wallet),
		byUser:  make(map[string]string),
		jobs:    make(map[string]*domain.Job),
	}
}

func (s *memStore) ensureWallet(userID string, now time.Time) *domain.Wallet {
	if id, ok := s.byUser[userID]; ok {
		return s.wallets[id]
	}
	w := &domain.Wallet{
		WalletID: "wallet-" + userID,
		UserID:   userID,
		Balance:  decimal.Zero,
		Status:   domain.WalletActive,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID,
		},
	}
	s.wallets[w.WalletID] = w
	s.byUser[userID] = w.WalletID
	return w
}

func (s *memStore) GetOrCreateWallet(ctx context.Context, userID string, now time.Time) (*domain.Wallet, error) {
	w := *s.ensureWallet(userID, now)
	return &w, nil
}

func (s *memStore) GetOrCreateWalletInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (*domain.Wallet, error) {
	return s.GetOrCreateWallet(ctx, userID, now)
}

func (s *memStore) FindWalletByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	id, ok := s.byUser[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	w := *s.wallets[id]
	return &w, nil
}

func (s *memStore) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	w, ok := s.wallets[walletID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (s *memStore) FindWalletsForUpdate(ctx context.Context, tx pgx.Tx, walletIDs []string) (map[string]domain.Wallet, error) {
	out := make(map[string]domain.Wallet, len(walletIDs))
	for _, id := range walletIDs {
		w, ok := s.wallets[id]
		if !ok {
			return nil, fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, id)
		}
		out[id] = *w
	}
	return out, nil
}

func (s *memStore) AdjustWalletBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	for id, delta := range changes {
		w, ok := s.wallets[id]
		if !ok {
			return fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, id)
		}
		if w.Balance.Add(delta).IsNegative() {
			return fmt.Errorf("%w: wallet %s", apperrors.ErrInsufficientFunds, id)
		}
	}
	for id, delta := range changes {
		w := s.wallets[id]
		w.Balance = w.Balance.Add(delta)
		w.LastUpdatedAt = now
		w.LastUpdatedBy = userID
	}
	return nil
}

func (s *memStore) AdjustWalletBalance(ctx context.Context, userID string, delta decimal.Decimal, logEntry domain.Transaction) (*domain.Wallet, error) {
	w := s.ensureWallet(userID, logEntry.CreatedAt)
	if err := s.AdjustWalletBalancesInTx(ctx, nil, map[string]decimal.Decimal{w.WalletID: delta}, logEntry.CreatedBy, logEntry.CreatedAt); err != nil {
		return nil, err
	}
	s.txns = append(s.txns, logEntry)
	copied := *w
	return &copied, nil
}

func (s *memStore) SetWalletBalance(ctx context.Context, idOrWalletID string, newBalance decimal.Decimal, isWalletID bool, logEntry domain.Transaction) (*domain.Wallet, error) {
	id := idOrWalletID
	if !isWalletID {
		var ok bool
		if id, ok = s.byUser[idOrWalletID]; !ok {
			return nil, apperrors.ErrNotFound
		}
	}
	w, ok := s.wallets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	s.txns = append(s.txns, balanceSetEntry(logEntry, *w, newBalance))
	w.Balance = newBalance
	copied := *w
	return &copied, nil
}

func (s *memStore) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	s.txns = append(s.txns, txn)
	return nil
}

func (s *memStore) FindHeldByJobID(ctx context.Context, jobID string) (*domain.Transaction, error) {
	for i := range s.txns {
		t := s.txns[i]
		if t.Type == domain.Hold && t.JobID != nil && *t.JobID == jobID {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: job %s", apperrors.ErrNoHeldFunds, jobID)
}

func (s *memStore) FindHeldByJobIDForUpdate(ctx context.Context, tx pgx.Tx, jobID string) (*domain.Transaction, error) {
	return s.FindHeldByJobID(ctx, jobID)
}

func (s *memStore) ResolveHoldInTx(ctx context.Context, tx pgx.Tx, transactionID string, newStatus domain.TransactionStatus, toWalletID *string, userID string, now time.Time) error {
	for i := range s.txns {
		if s.txns[i].TransactionID != transactionID {
			continue
		}
		if s.txns[i].Status != domain.StatusHeld {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyResolved, transactionID)
		}
		s.txns[i].Status = newStatus
		if toWalletID != nil {
			s.txns[i].ToWalletID = toWalletID
		}
		s.txns[i].LastUpdatedAt = now
		s.txns[i].LastUpdatedBy = userID
		return nil
	}
	return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
}

func (s *memStore) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	return nil, nil, nil
}

func (s *memStore) SaveJobInTx(ctx context.Context, tx pgx.Tx, job domain.Job) error {
	s.jobs[job.JobID] = &job
	return nil
}

func (s *memStore) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	j, ok := s.jobs[jobID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *j
	return &copied, nil
}

func (s *memStore) ListJobsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Job, *string, error) {
	return nil, nil, nil
}

func (s *memStore) UpdateJobStatusInTx(ctx context.Context, tx pgx.Tx, jobID string, status domain.JobStatus, userID string, now time.Time) error {
	j, ok := s.jobs[jobID]
	if !ok {
		return apperrors.ErrNotFound
	}
	j.Status = status
	j.LastUpdatedAt = now
	j.LastUpdatedBy = userID
	return nil
}

func (s *memStore) UpdateJobStatus(ctx context.Context, jobID string, status domain.JobStatus, userID string, now time.Time) error {
	return s.UpdateJobStatusInTx(ctx, nil, jobID, status, userID, now)
}

func (s *memStore) DeleteJob(ctx context.Context, jobID string) error {
	delete(s.jobs, jobID)
	return nil
}

func (s *memStore) SaveApplication(ctx context.Context, app domain.Application) error { return nil }

func (s *memStore) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	return nil, apperrors.ErrNotFound
}

func (s *memStore) UpdateApplicationStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, userID string, now time.Time) error {
	return nil
}

func (s *memStore) HasStartedApplication(ctx context.Context, jobID string) (bool, error) {
	return false, nil
}

func (s *memStore) ListApplicationsByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return nil, nil
}

const (
	flowCompany = "company-1"
	flowWorker  = "worker-1"
	flowAdmin   = "admin-1"
)

// EscrowFlowsTestSuite drives the three escrow flows against memStore and
// asserts on the resulting balances and ledger entries rather than on mocked
// call sequences.
type EscrowFlowsTestSuite struct {
	suite.Suite
	store *memStore
	repo  *PgxEscrowRepository
}

func (suite *EscrowFlowsTestSuite) SetupTest() {
	suite.store = newMemStore()
	suite.repo = &PgxEscrowRepository{
		BaseRepository: BaseRepository{Pool: fakeDB{}, Retry: DefaultRetryPolicy},
		walletRepo:     suite.store,
		txnRepo:        suite.store,
		jobRepo:        suite.store,
	}
}

func (suite *EscrowFlowsTestSuite) seedBalance(userID string, amount int64) {
	w := suite.store.ensureWallet(userID, time.Now())
	w.Balance = decimal.NewFromInt(amount)
}

func (suite *EscrowFlowsTestSuite) balance(userID string) decimal.Decimal {
	id, ok := suite.store.byUser[userID]
	if !ok {
		return decimal.Zero
	}
	return suite.store.wallets[id].Balance
}

func (suite *EscrowFlowsTestSuite) totalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, w := range suite.store.wallets {
		total = total.Add(w.Balance)
	}
	return total
}

func (suite *EscrowFlowsTestSuite) openJob(value int64) domain.Job {
	now := time.Now()
	job := domain.Job{
		JobID:       uuid.NewString(),
		CompanyID:   flowCompany,
		Title:       "Warehouse shift",
		SalaryRange: decimal.NewFromInt(value).String(),
		Status:      domain.JobOpen,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: flowCompany, LastUpdatedAt: now, LastUpdatedBy: flowCompany,
		},
	}
	_, err := suite.repo.OpenJobEscrow(context.Background(), job, flowCompany, flowAdmin,
		decimal.NewFromInt(10), decimal.NewFromInt(value))
	suite.Require().NoError(err)
	return job
}

func (suite *EscrowFlowsTestSuite) equalInt(expected int64, actual decimal.Decimal) {
	suite.True(actual.Equal(decimal.NewFromInt(expected)), "expected %d, got %s", expected, actual)
}

func (suite *EscrowFlowsTestSuite) TestOpenJobEscrow_MovesFeePlusValueToAdmin() {
	suite.seedBalance(flowCompany, 100)

	job := suite.openJob(50)

	suite.equalInt(40, suite.balance(flowCompany))
	suite.equalInt(60, suite.balance(flowAdmin))
	suite.equalInt(100, suite.totalBalance())

	hold, err := suite.store.FindHeldByJobID(context.Background(), job.JobID)
	suite.Require().NoError(err)
	suite.equalInt(50, hold.Amount)
	suite.Equal(domain.StatusHeld, hold.Status)
	suite.Require().NotNil(hold.FromWalletID)
	suite.Equal("wallet-"+flowCompany, *hold.FromWalletID)
	suite.Nil(hold.ToWalletID)

	saved, err := suite.store.FindJobByID(context.Background(), job.JobID)
	suite.Require().NoError(err)
	suite.Equal(domain.JobOpen, saved.Status)
}

func (suite *EscrowFlowsTestSuite) TestOpenJobEscrow_InsufficientFundsLeavesNoTrace() {
	suite.seedBalance(flowCompany, 50)

	job := domain.Job{JobID: uuid.NewString(), CompanyID: flowCompany, Title: "Warehouse shift", SalaryRange: "50"}
	_, err := suite.repo.OpenJobEscrow(context.Background(), job, flowCompany, flowAdmin,
		decimal.NewFromInt(10), decimal.NewFromInt(50))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.equalInt(50, suite.balance(flowCompany))
	suite.Empty(suite.store.txns)
	suite.Empty(suite.store.jobs)
}

func (suite *EscrowFlowsTestSuite) TestOpenJobEscrow_BlockedCompanyWallet() {
	suite.seedBalance(flowCompany, 100)
	suite.store.wallets["wallet-"+flowCompany].Status = domain.WalletBlocked

	job := domain.Job{JobID: uuid.NewString(), CompanyID: flowCompany, Title: "Warehouse shift", SalaryRange: "50"}
	_, err := suite.repo.OpenJobEscrow(context.Background(), job, flowCompany, flowAdmin,
		decimal.NewFromInt(10), decimal.NewFromInt(50))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrWalletBlocked)
	suite.equalInt(100, suite.balance(flowCompany))
}

func (suite *EscrowFlowsTestSuite) TestReleaseJobEscrow_MovesHeldAmountFromAdminToWorker() {
	ctx := context.Background()
	suite.seedBalance(flowCompany, 100)
	job := suite.openJob(50)

	payout, err := suite.repo.ReleaseJobEscrow(ctx, job.JobID, flowWorker, flowAdmin, flowCompany)

	suite.Require().NoError(err)
	suite.equalInt(40, suite.balance(flowCompany))
	suite.equalInt(50, suite.balance(flowWorker))
	// After open plus release the admin wallet keeps only the posting fee.
	suite.equalInt(10, suite.balance(flowAdmin))
	suite.equalInt(100, suite.totalBalance())

	suite.equalInt(50, payout.Amount)
	suite.Equal(domain.Payment, payout.Type)
	suite.Equal(domain.StatusCompleted, payout.Status)
	suite.Require().NotNil(payout.FromWalletID)
	suite.Equal("wallet-"+flowAdmin, *payout.FromWalletID)
	suite.Require().NotNil(payout.ToWalletID)
	suite.Equal("wallet-"+flowWorker, *payout.ToWalletID)

	hold, err := suite.store.FindHeldByJobID(ctx, job.JobID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, hold.Status)
	suite.Require().NotNil(hold.ToWalletID)
	suite.Equal("wallet-"+flowWorker, *hold.ToWalletID)

	saved, err := suite.store.FindJobByID(ctx, job.JobID)
	suite.Require().NoError(err)
	suite.Equal(domain.JobCompleted, saved.Status)
}

func (suite *EscrowFlowsTestSuite) TestReleaseJobEscrow_SecondReleaseMovesNothing() {
	ctx := context.Background()
	suite.seedBalance(flowCompany, 100)
	job := suite.openJob(50)

	_, err := suite.repo.ReleaseJobEscrow(ctx, job.JobID, flowWorker, flowAdmin, flowCompany)
	suite.Require().NoError(err)

	_, err = suite.repo.ReleaseJobEscrow(ctx, job.JobID, flowWorker, flowAdmin, flowCompany)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyResolved)
	suite.equalInt(50, suite.balance(flowWorker))
	suite.equalInt(10, suite.balance(flowAdmin))
	suite.equalInt(100, suite.totalBalance())
}

func (suite *EscrowFlowsTestSuite) TestReleaseJobEscrow_NoHold() {
	_, err := suite.repo.ReleaseJobEscrow(context.Background(), uuid.NewString(), flowWorker, flowAdmin, flowCompany)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoHeldFunds)
}

func (suite *EscrowFlowsTestSuite) TestRefundJobEscrow_FullValueWhenWorkNeverStarted() {
	ctx := context.Background()
	suite.seedBalance(flowCompany, 100)
	job := suite.openJob(50)

	refund, err := suite.repo.RefundJobEscrow(ctx, job.JobID, flowCompany, flowAdmin,
		decimal.NewFromInt(50), flowCompany)

	suite.Require().NoError(err)
	suite.equalInt(90, suite.balance(flowCompany))
	suite.equalInt(10, suite.balance(flowAdmin))
	suite.equalInt(100, suite.totalBalance())

	suite.equalInt(50, refund.Amount)
	suite.Equal(domain.Refund, refund.Type)

	hold, err := suite.store.FindHeldByJobID(ctx, job.JobID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusFailed, hold.Status)
}

func (suite *EscrowFlowsTestSuite) TestRefundJobEscrow_FeeWithheldWhenWorkStarted() {
	ctx := context.Background()
	suite.seedBalance(flowCompany, 100)
	job := suite.openJob(50)

	refund, err := suite.repo.RefundJobEscrow(ctx, job.JobID, flowCompany, flowAdmin,
		decimal.NewFromInt(40), flowCompany)

	suite.Require().NoError(err)
	suite.equalInt(80, suite.balance(flowCompany))
	suite.equalInt(20, suite.balance(flowAdmin))
	suite.equalInt(100, suite.totalBalance())
	suite.equalInt(40, refund.Amount)
}

func (suite *EscrowFlowsTestSuite) TestRefundJobEscrow_RefundExceedingHoldRejected() {
	ctx := context.Background()
	suite.seedBalance(flowCompany, 100)
	job := suite.openJob(50)

	_, err := suite.repo.RefundJobEscrow(ctx, job.JobID, flowCompany, flowAdmin,
		decimal.NewFromInt(60), flowCompany)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.equalInt(40, suite.balance(flowCompany))
	suite.equalInt(60, suite.balance(flowAdmin))
}

func TestEscrowFlowsTestSuite(t *testing.T) {
	suite.Run(t, new(EscrowFlowsTestSuite))
}
