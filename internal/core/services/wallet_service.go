package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
	"github.com/jobhive/jobhive_backend/internal/dto"
	"github.com/jobhive/jobhive_backend/internal/middleware"
)

const maxTransactionPageSize = 100

type WalletService struct {
	walletRepo portsrepo.WalletRepository
	txnRepo    portsrepo.TransactionRepository
	userRepo   portsrepo.UserRepository
}

func NewWalletService(walletRepo portsrepo.WalletRepository, txnRepo portsrepo.TransactionRepository, userRepo portsrepo.UserRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo, txnRepo: txnRepo, userRepo: userRepo}
}

// Ensure WalletService implements the facade
var _ portssvc.WalletSvcFacade = (*WalletService)(nil)

// GetOrCreateWallet ensures the user has a wallet, creating a zero-balance
// one on first financial interaction.
func (s *WalletService) GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	exists, err := s.userRepo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return s.walletRepo.GetOrCreateWallet(ctx, userID, time.Now())
}

// GetBalance is the display path: a user without a wallet reads as zero and
// no wallet row is created.
func (s *WalletService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	wallet, err := s.walletRepo.FindWalletByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

// ListTransactions returns the user's ledger history, most recent first.
func (s *WalletService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > maxTransactionPageSize {
		limit = maxTransactionPageSize
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByUser(ctx, userID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// AdminAdjustBalance applies a signed manual delta on behalf of an admin. The
// wallet update and its DEPOSIT/WITHDRAWAL log entry commit atomically.
func (s *WalletService) AdminAdjustBalance(ctx context.Context, targetUserID string, req dto.AdjustBalanceRequest, actorUserID string) (*domain.Wallet, error) {
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must not be zero", apperrors.ErrValidation)
	}
	exists, err := s.userRepo.UserExists(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, targetUserID)
	}

	now := time.Now()
	txnType := domain.Deposit
	if req.Amount.IsNegative() {
		txnType = domain.Withdrawal
	}

	wallet, err := s.walletRepo.GetOrCreateWallet(ctx, targetUserID, now)
	if err != nil {
		return nil, err
	}

	entry := domain.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        req.Amount.Abs(),
		Type:          txnType,
		Status:        domain.StatusCompleted,
		Description:   req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}
	if req.Amount.IsPositive() {
		entry.ToWalletID = &wallet.WalletID
	} else {
		entry.FromWalletID = &wallet.WalletID
	}

	updated, err := s.walletRepo.AdjustWalletBalance(ctx, targetUserID, req.Amount, entry)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Manual balance adjustment",
		"target_user_id", targetUserID, "amount", req.Amount.String(), "type", string(txnType))
	return updated, nil
}

// SetBalance sets an absolute wallet balance, identified by user id or wallet
// id. Admin surface; the store logs the delta it computes under the row lock
// as a DEPOSIT or WITHDRAWAL.
func (s *WalletService) SetBalance(ctx context.Context, idOrWalletID string, req dto.SetBalanceRequest, actorUserID string) (*domain.Wallet, error) {
	if req.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	if req.IsWalletID {
		if _, err := s.walletRepo.FindWalletByID(ctx, idOrWalletID); err != nil {
			return nil, err
		}
	} else {
		// Ensure the wallet exists so the locked update has a row to hit.
		if _, err := s.walletRepo.GetOrCreateWallet(ctx, idOrWalletID, now); err != nil {
			return nil, err
		}
	}

	entry := domain.Transaction{
		TransactionID: uuid.NewString(),
		Status:        domain.StatusCompleted,
		Description:   fmt.Sprintf("Balance set to %s by admin", req.Balance),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}
	return s.walletRepo.SetWalletBalance(ctx, idOrWalletID, req.Balance, req.IsWalletID, entry)
}
