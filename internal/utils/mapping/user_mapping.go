package mapping

import (
	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:         d.UserID,
		Name:           d.Name,
		PhoneNumber:    d.PhoneNumber,
		Email:          d.Email,
		Role:           string(d.Role),
		SavingsBalance: d.SavingsBalance,
		SharesBalance:  d.SharesBalance,
		PasswordHash:   d.PasswordHash,
		IsActive:       d.IsActive,
		AuditFields:    toModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Name:           m.Name,
		PhoneNumber:    m.PhoneNumber,
		Email:          m.Email,
		Role:           domain.UserRole(m.Role),
		SavingsBalance: m.SavingsBalance,
		SharesBalance:  m.SharesBalance,
		PasswordHash:   m.PasswordHash,
		IsActive:       m.IsActive,
		AuditFields:    toDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
