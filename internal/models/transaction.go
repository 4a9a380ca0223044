package models

import "github.com/shopspring/decimal"

// TransactionType mirrors domain.TransactionType at the storage layer.
type TransactionType string

// TransactionStatus mirrors domain.TransactionStatus at the storage layer.
type TransactionStatus string

// Transaction maps to the append-only transactions table. from_wallet_id and
// to_wallet_id are nullable (a hold has no payee until resolved); a partial
// unique index enforces at most one HELD row per job_id.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	FromWalletID  *string           `json:"fromWalletID"`
	ToWalletID    *string           `json:"toWalletID"`
	Amount        decimal.Decimal   `json:"amount"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Description   string            `json:"description"`
	JobID         *string           `json:"jobID"`
	AuditFields
}
