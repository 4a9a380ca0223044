package mapping

import (
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	"github.com/jobhive/jobhive_backend/internal/models"
)

// ToDomainWallet converts a model Wallet to a domain Wallet
func ToDomainWallet(m models.Wallet) domain.Wallet {
	return domain.Wallet{
		WalletID:    m.WalletID,
		UserID:      m.UserID,
		Balance:     m.Balance,
		Status:      domain.WalletStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
