package mapping

import (
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	"github.com/jobhive/jobhive_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         models.UserRole(d.Role),
		FCMToken:     d.FCMToken,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		FCMToken:     m.FCMToken,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
