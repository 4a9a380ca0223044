package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
	"github.com/jobhive/jobhive_backend/internal/dto"
)

// WalletSvcFacade is the balance query and manual adjustment surface.
type WalletSvcFacade interface {
	// GetOrCreateWallet is the read-or-create path used when the caller is
	// about to transact.
	GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error)

	// GetBalance is the cheap display path: returns 0 when the user has no
	// wallet yet, without creating one.
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)

	// ListTransactions returns the user's history, most recent first.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// AdminAdjustBalance applies a signed manual delta (DEPOSIT when positive,
	// WITHDRAWAL when negative) on behalf of an admin, atomic with its log
	// entry. Not correlated to any job.
	AdminAdjustBalance(ctx context.Context, targetUserID string, req dto.AdjustBalanceRequest, actorUserID string) (*domain.Wallet, error)

	// SetBalance sets an absolute balance by user id or wallet id (admin only).
	SetBalance(ctx context.Context, idOrWalletID string, req dto.SetBalanceRequest, actorUserID string) (*domain.Wallet, error)
}
