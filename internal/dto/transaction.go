package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// TransactionResponse is one ledger entry as shown in a user's history.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	FromWalletID  *string         `json:"fromWalletID,omitempty"`
	ToWalletID    *string         `json:"toWalletID,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Description   string          `json:"description"`
	JobID         *string         `json:"jobID,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToTransactionResponse converts a domain Transaction to its response DTO.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		FromWalletID:  t.FromWalletID,
		ToWalletID:    t.ToWalletID,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Status:        string(t.Status),
		Description:   t.Description,
		JobID:         t.JobID,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain Transactions.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(ts))
	for i, t := range ts {
		out[i] = ToTransactionResponse(t)
	}
	return out
}

// ListTransactionsParams holds pagination parameters for transaction history.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transaction history.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
