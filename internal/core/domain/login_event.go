package domain

import "time"

// LoginOutcome is the result of one authentication attempt.
type LoginOutcome string

const (
	LoginSucceeded       LoginOutcome = "success"
	LoginRoleMismatch    LoginOutcome = "role_mismatch"
	LoginPendingApproval LoginOutcome = "pending_approval"
	LoginBadCredential   LoginOutcome = "bad_credential"
	LoginPincodeRequired LoginOutcome = "pincode_required"
	LoginPincodeMismatch LoginOutcome = "pincode_mismatch"
)

// LoginEvent is one entry of the login history. Attempts against unknown emails are not
// recorded since there is no account to attach them to.
type LoginEvent struct {
	EventID    string       `json:"eventID"`
	AccountID  string       `json:"accountID"`
	Email      string       `json:"email"`
	Name       string       `json:"name"`
	Role       Role         `json:"role"`
	Outcome    LoginOutcome `json:"outcome"`
	IPAddress  string       `json:"ipAddress,omitempty"`
	UserAgent  string       `json:"userAgent,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}
