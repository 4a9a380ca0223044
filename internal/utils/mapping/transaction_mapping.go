package mapping

import (
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	"github.com/jobhive/jobhive_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		FromWalletID:  d.FromWalletID,
		ToWalletID:    d.ToWalletID,
		Amount:        d.Amount,
		Type:          models.TransactionType(d.Type),
		Status:        models.TransactionStatus(d.Status),
		Description:   d.Description,
		JobID:         d.JobID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		FromWalletID:  m.FromWalletID,
		ToWalletID:    m.ToWalletID,
		Amount:        m.Amount,
		Type:          domain.TransactionType(m.Type),
		Status:        domain.TransactionStatus(m.Status),
		Description:   m.Description,
		JobID:         m.JobID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
