package domain

import "github.com/shopspring/decimal"

// TransactionType categorizes a money movement in the flat ledger.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
	Payment    TransactionType = "PAYMENT"
	Refund     TransactionType = "REFUND"
	Hold       TransactionType = "HOLD"
)

// TransactionStatus tracks the lifecycle of a ledger entry. Entries are
// immutable except for the single permitted transition HELD -> COMPLETED or
// HELD -> FAILED.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusHeld      TransactionStatus = "HELD"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Transaction is one append-only record of money moving between wallets.
// A HOLD entry carries only the job's payout value (never the platform fee),
// keeps FromWalletID set to the payer and ToWalletID nil until resolved, and
// stays HELD until explicitly released or refunded. At most one HELD entry
// exists per job at any time.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	FromWalletID  *string           `json:"fromWalletID,omitempty"`
	ToWalletID    *string           `json:"toWalletID,omitempty"`
	Amount        decimal.Decimal   `json:"amount"` // always >= 0
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Description   string            `json:"description"`
	JobID         *string           `json:"jobID,omitempty"` // escrow correlation
	AuditFields
}

// IsResolvable reports whether the entry is an open hold.
func (t Transaction) IsResolvable() bool {
	return t.Type == Hold && t.Status == StatusHeld
}
