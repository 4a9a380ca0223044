package domain

import "github.com/shopspring/decimal"

// WalletStatus indicates whether a wallet may move money.
type WalletStatus string

const (
	WalletActive  WalletStatus = "ACTIVE"
	WalletBlocked WalletStatus = "BLOCKED"
)

// Wallet is the per-user balance record, denominated in platform currency.
// One wallet per user (1:1), created lazily on first financial interaction
// and never deleted. The balance is never negative; every mutation is paired
// with exactly one transaction-log entry inside the same database transaction.
type Wallet struct {
	WalletID string          `json:"walletID"`
	UserID   string          `json:"userID"`
	Balance  decimal.Decimal `json:"balance"`
	Status   WalletStatus    `json:"status"`
	AuditFields
}
