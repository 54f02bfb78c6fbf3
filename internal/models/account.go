package models

import "time"

// Account is a row of the accounts table. Client-only columns are nullable.
type Account struct {
	AccountID         string     `db:"account_id"`
	Name              string     `db:"name"`
	Email             string     `db:"email"`
	PasswordHash      string     `db:"password_hash"`
	Role              string     `db:"role"`
	Phone             *string    `db:"phone"`
	Company           *string    `db:"company"`
	UniqueCode        *string    `db:"unique_code"`
	City              *string    `db:"city"`
	Pincode           *string    `db:"pincode"`
	AssignedClientIDs []string   `db:"assigned_client_ids"`
	IsApproved        bool       `db:"is_approved"`
	LastLoginAt       *time.Time `db:"last_login_at"`
	AuditFields
}
