package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// WalletResponse is the balance query projection for UI consumption.
// AvailableBalance mirrors Balance: funds already committed to a hold are
// reflected only by the initial debit, per the existing display policy.
type WalletResponse struct {
	WalletID         string          `json:"walletID"`
	UserID           string          `json:"userID"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToWalletResponse converts a domain Wallet to its response DTO.
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID:         w.WalletID,
		UserID:           w.UserID,
		Balance:          w.Balance,
		AvailableBalance: w.Balance,
		Status:           string(w.Status),
		CreatedAt:        w.CreatedAt,
	}
}

// AdjustBalanceRequest is the admin manual credit/debit payload. Amount is
// signed: positive deposits, negative withdraws.
type AdjustBalanceRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

// SetBalanceRequest sets an absolute wallet balance (admin surface).
type SetBalanceRequest struct {
	Balance    decimal.Decimal `json:"balance" binding:"required"`
	IsWalletID bool            `json:"isWalletID"`
}
