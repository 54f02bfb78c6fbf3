package models

import "time"

// LoginEvent is a row of the append-only login_events table.
type LoginEvent struct {
	EventID    string    `db:"event_id"`
	AccountID  string    `db:"account_id"`
	Email      string    `db:"email"`
	Name       string    `db:"name"`
	Role       string    `db:"role"`
	Outcome    string    `db:"outcome"`
	IPAddress  *string   `db:"ip_address"`
	UserAgent  *string   `db:"user_agent"`
	OccurredAt time.Time `db:"occurred_at"`
}
