package mapping

import (
	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/SscSPs/audit_portal/internal/models"
)

// ToModelLoginEvent converts a domain LoginEvent to a model LoginEvent
func ToModelLoginEvent(d domain.LoginEvent) models.LoginEvent {
	return models.LoginEvent{
		EventID:    d.EventID,
		AccountID:  d.AccountID,
		Email:      d.Email,
		Name:       d.Name,
		Role:       string(d.Role),
		Outcome:    string(d.Outcome),
		IPAddress:  nullable(d.IPAddress),
		UserAgent:  nullable(d.UserAgent),
		OccurredAt: d.OccurredAt,
	}
}

// ToDomainLoginEvent converts a model LoginEvent to a domain LoginEvent
func ToDomainLoginEvent(m models.LoginEvent) domain.LoginEvent {
	return domain.LoginEvent{
		EventID:    m.EventID,
		AccountID:  m.AccountID,
		Email:      m.Email,
		Name:       m.Name,
		Role:       domain.Role(m.Role),
		Outcome:    domain.LoginOutcome(m.Outcome),
		IPAddress:  deref(m.IPAddress),
		UserAgent:  deref(m.UserAgent),
		OccurredAt: m.OccurredAt,
	}
}
