package domain

import (
	"strings"
	"time"
)

// Role is the portal role an account holds.
type Role string

const (
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleClient, RoleAdmin:
		return true
	}
	return false
}

// Location is where a client operates. Pincode doubles as the client's second login factor.
type Location struct {
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// Account represents a portal user in the core domain.
type Account struct {
	AccountID    string `json:"accountID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"` // Unique, stored normalized
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	Phone        string `json:"phone,omitempty"` // E.164 when present

	// Client-only attributes.
	Company    string   `json:"company,omitempty"`
	UniqueCode string   `json:"uniqueCode,omitempty"` // Unique among clients
	Location   Location `json:"location"`

	// Staff-only: account ids of the clients this staff member counts for.
	AssignedClientIDs []string `json:"assignedClientIDs,omitempty"`

	IsApproved  bool       `json:"isApproved"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	AuditFields
}

// IsClient reports whether the account has the client role.
func (a *Account) IsClient() bool { return a.Role == RoleClient }

// IsAdmin reports whether the account has the admin role.
func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }

// Approve flips the approval flag. It reports whether anything changed, so approving twice
// is a no-op rather than an error.
func (a *Account) Approve(approverID string, now time.Time) bool {
	if a.IsApproved {
		return false
	}
	a.IsApproved = true
	a.LastUpdatedAt = now
	a.LastUpdatedBy = approverID
	return true
}

// RecordLogin stamps the last-login time. It is the explicit side effect of a successful
// authentication.
func (a *Account) RecordLogin(now time.Time) {
	a.LastLoginAt = &now
}

// NormalizeEmail lower-cases and trims an email so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountFilter narrows account listings. Zero values are not applied.
type AccountFilter struct {
	Role         Role
	OnlyPending  bool
	OnlyApproved bool
	Limit        int
	Offset       int
}
