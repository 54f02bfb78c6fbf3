package domain

import "time"

// EventType names a state change that is fanned out to subscribers.
type EventType string

const (
	EventRecordPending     EventType = "record.pending"
	EventRecordResponded   EventType = "record.responded"
	EventAccountRegistered EventType = "account.registered"
	EventAccountApproved   EventType = "account.approved"
)

// Audience is a real-time channel key: "role:<role>" or "account:<id>".
type Audience string

// RoleAudience is the channel every account of role joins.
func RoleAudience(r Role) Audience { return Audience("role:" + string(r)) }

// AccountAudience is the channel of a single account.
func AccountAudience(accountID string) Audience { return Audience("account:" + accountID) }

// Event is a state change together with the audiences that should hear about it.
type Event struct {
	Type       EventType    `json:"event"`
	Audiences  []Audience   `json:"-"`
	Record     *AuditRecord `json:"record,omitempty"`
	Account    *Account     `json:"account,omitempty"`
	OccurredAt time.Time    `json:"sentAt"`
}

// RecordPendingEvent targets the associated client, or every client when none is set.
func RecordPendingEvent(rec *AuditRecord, now time.Time) Event {
	aud := RoleAudience(RoleClient)
	if rec.ClientID != "" {
		aud = AccountAudience(rec.ClientID)
	}
	return Event{Type: EventRecordPending, Audiences: []Audience{aud}, Record: rec, OccurredAt: now}
}

// RecordRespondedEvent targets the staff author of the record.
func RecordRespondedEvent(rec *AuditRecord, now time.Time) Event {
	return Event{
		Type:       EventRecordResponded,
		Audiences:  []Audience{AccountAudience(rec.StaffID)},
		Record:     rec,
		OccurredAt: now,
	}
}

// AccountRegisteredEvent targets the admin audience.
func AccountRegisteredEvent(acc *Account, now time.Time) Event {
	return Event{
		Type:       EventAccountRegistered,
		Audiences:  []Audience{RoleAudience(RoleAdmin)},
		Account:    acc,
		OccurredAt: now,
	}
}

// AccountApprovedEvent targets the approved account only.
func AccountApprovedEvent(acc *Account, now time.Time) Event {
	return Event{
		Type:       EventAccountApproved,
		Audiences:  []Audience{AccountAudience(acc.AccountID)},
		Account:    acc,
		OccurredAt: now,
	}
}
