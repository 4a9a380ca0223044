package models

import "github.com/shopspring/decimal"

// WalletStatus mirrors domain.WalletStatus at the storage layer.
type WalletStatus string

const (
	WalletActive  WalletStatus = "ACTIVE"
	WalletBlocked WalletStatus = "BLOCKED"
)

// Wallet maps to the wallets table. balance is NUMERIC(20,2) with a
// CHECK (balance >= 0) constraint and user_id carries a UNIQUE constraint so
// concurrent first-access cannot create two wallets for one user.
type Wallet struct {
	WalletID string          `json:"walletID"`
	UserID   string          `json:"userID"`
	Balance  decimal.Decimal `json:"balance"`
	Status   WalletStatus    `json:"status"`
	AuditFields
}
