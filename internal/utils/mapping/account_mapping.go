package mapping

import (
	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/SscSPs/audit_portal/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	assigned := d.AssignedClientIDs
	if assigned == nil {
		assigned = []string{}
	}
	return models.Account{
		AccountID:         d.AccountID,
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		Role:              string(d.Role),
		Phone:             nullable(d.Phone),
		Company:           nullable(d.Company),
		UniqueCode:        nullable(d.UniqueCode),
		City:              nullable(d.Location.City),
		Pincode:           nullable(d.Location.Pincode),
		AssignedClientIDs: assigned,
		IsApproved:        d.IsApproved,
		LastLoginAt:       d.LastLoginAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		Phone:        deref(m.Phone),
		Company:      deref(m.Company),
		UniqueCode:   deref(m.UniqueCode),
		Location: domain.Location{
			City:    deref(m.City),
			Pincode: deref(m.Pincode),
		},
		AssignedClientIDs: m.AssignedClientIDs,
		IsApproved:        m.IsApproved,
		LastLoginAt:       m.LastLoginAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
