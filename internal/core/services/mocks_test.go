package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// --- Mock WalletRepository ---

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetOrCreateWallet(ctx context.Context, userID string, now time.Time) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, now)
	var w *domain.Wallet
	if args.Get(0) != nil {
		w = args.Get(0).(*domain.Wallet)
	}
	return w, args.Error(1)
}

func (m *MockWalletRepository) GetOrCreateWalletInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (*domain.Wallet, error) {
	args := m.Called(ctx, tx, userID, now)
	var w *domain.Wallet
	if args.Get(0) != nil {
		w = args.Get(0).(*domain.Wallet)
	}
	return w, args.Error(1)
}

func (m *MockWalletRepository) FindWalletByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	var w *domain.Wallet
	if args.Get(0) != nil {
		w = args.Get(0).(*domain.Wallet)
	}
	return w, args.Error(1)
}

func (m *MockWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	args := m.Called(ctx, walletID)
	var w *domain.Wallet
	if args.Get(0) != nil {
		w = args.Get(0).(*domain.Wallet)
	}
	return w, args.Error(1)
}

func (m *MockWalletRepository) FindWalletsForUpdate(ctx context.Context, tx pgx.Tx, walletIDs []string) (map[string]domain.Wallet, error) {
	args := m.Called(ctx, tx, walletIDs)
	var ws map[string]domain.Wallet
	if args.Get(0) != nil {
		ws = args.Get(0).(map[string]domain.Wallet)
	}
	return ws, args.Error(1)
}

func (m *MockWalletRepository) AdjustWalletBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, changes, userID, now)
	return args.Error(0)
}

func (m *MockWalletRepository) AdjustWalletBalance(ctx context.Context, userID string, delta decimal.Decimal, logEntry domain.Transaction) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, delta, logEntry)
	var w *domain.Wallet
	if args.Get(0) != nil {
		w = args.Get(0).(*domain.Wallet)
	}
	return w, args.Error(1)
}

func (m *MockWalletRepository) SetWalletBalance(ctx context.Context, idOrWalletID string, newBalance decimal.Decimal, isWalletID bool, logEntry domain.Transaction) (*domain.Wallet, error) {
	args := m.Called(ctx, idOrWalletID, newBalance, isWalletID, logEntry)
	var w *domain.Wallet
	if args.Get(0) != nil {
		w = args.Get(0).(*domain.Wallet)
	}
	return w, args.Error(1)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindHeldByJobID(ctx context.Context, jobID string) (*domain.Transaction, error) {
	args := m.Called(ctx, jobID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) FindHeldByJobIDForUpdate(ctx context.Context, tx pgx.Tx, jobID string) (*domain.Transaction, error) {
	args := m.Called(ctx, tx, jobID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) ResolveHoldInTx(ctx context.Context, tx pgx.Tx, transactionID string, newStatus domain.TransactionStatus, toWalletID *string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, transactionID, newStatus, toWalletID, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

// --- Mock EscrowRepository ---

type MockEscrowRepository struct {
	mock.Mock
}

func (m *MockEscrowRepository) OpenJobEscrow(ctx context.Context, job domain.Job, companyUserID string, adminUserID string, fee decimal.Decimal, value decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, job, companyUserID, adminUserID, fee, value)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockEscrowRepository) ReleaseJobEscrow(ctx context.Context, jobID string, workerUserID string, adminUserID string, actorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, jobID, workerUserID, adminUserID, actorUserID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockEscrowRepository) RefundJobEscrow(ctx context.Context, jobID string, companyUserID string, adminUserID string, refund decimal.Decimal, actorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, jobID, companyUserID, adminUserID, refund, actorUserID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

// --- Mock JobRepository ---

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) SaveJobInTx(ctx context.Context, tx pgx.Tx, job domain.Job) error {
	args := m.Called(ctx, tx, job)
	return args.Error(0)
}

func (m *MockJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID)
	var job *domain.Job
	if args.Get(0) != nil {
		job = args.Get(0).(*domain.Job)
	}
	return job, args.Error(1)
}

func (m *MockJobRepository) ListJobsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Job, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	var jobs []domain.Job
	if args.Get(0) != nil {
		jobs = args.Get(0).([]domain.Job)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return jobs, token, args.Error(2)
}

func (m *MockJobRepository) UpdateJobStatusInTx(ctx context.Context, tx pgx.Tx, jobID string, status domain.JobStatus, userID string, now time.Time) error {
	args := m.Called(ctx, tx, jobID, status, userID, now)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status domain.JobStatus, userID string, now time.Time) error {
	args := m.Called(ctx, jobID, status, userID, now)
	return args.Error(0)
}

func (m *MockJobRepository) DeleteJob(ctx context.Context, jobID string) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *MockJobRepository) SaveApplication(ctx context.Context, app domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockJobRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID)
	var app *domain.Application
	if args.Get(0) != nil {
		app = args.Get(0).(*domain.Application)
	}
	return app, args.Error(1)
}

func (m *MockJobRepository) UpdateApplicationStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, userID string, now time.Time) error {
	args := m.Called(ctx, applicationID, status, userID, now)
	return args.Error(0)
}

func (m *MockJobRepository) HasStartedApplication(ctx context.Context, jobID string) (bool, error) {
	args := m.Called(ctx, jobID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobRepository) ListApplicationsByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	args := m.Called(ctx, jobID)
	var apps []domain.Application
	if args.Get(0) != nil {
		apps = args.Get(0).([]domain.Application)
	}
	return apps, args.Error(1)
}

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, fcmToken string, title string, body string, data map[string]string) error {
	args := m.Called(ctx, fcmToken, title, body, data)
	return args.Error(0)
}
