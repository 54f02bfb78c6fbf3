package dto

import (
	"time"

	"github.com/SscSPs/audit_portal/internal/core/domain"
)

// AccountResponse is the redacted view of an account. It never carries the credential hash.
type AccountResponse struct {
	AccountID         string          `json:"accountID"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Role              domain.Role     `json:"role"`
	Phone             string          `json:"phone,omitempty"`
	Company           string          `json:"company,omitempty"`
	UniqueCode        string          `json:"uniqueCode,omitempty"`
	Location          domain.Location `json:"location"`
	AssignedClientIDs []string        `json:"assignedClientIDs,omitempty"`
	IsApproved        bool            `json:"isApproved"`
	LastLoginAt       *time.Time      `json:"lastLoginAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:         acc.AccountID,
		Name:              acc.Name,
		Email:             acc.Email,
		Role:              acc.Role,
		Phone:             acc.Phone,
		Company:           acc.Company,
		UniqueCode:        acc.UniqueCode,
		Location:          acc.Location,
		AssignedClientIDs: acc.AssignedClientIDs,
		IsApproved:        acc.IsApproved,
		LastLoginAt:       acc.LastLoginAt,
		CreatedAt:         acc.CreatedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}

// UpdateAccountDetailsRequest is what an admin may change on another account.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateAccountDetailsRequest struct {
	Company             *string  `json:"company" binding:"omitempty,max=200"`
	City                *string  `json:"city" binding:"omitempty,max=100"`
	AssignedClientCodes []string `json:"assignedClientCodes" binding:"omitempty,dive,alphanum"`
}

// ListParams defines query parameters for paginated listings.
type ListParams struct {
	Limit  int `form:"limit,default=50" binding:"min=1,max=500"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// LoginEventResponse is one row of the login history.
type LoginEventResponse struct {
	AccountID  string              `json:"accountID"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Role       domain.Role         `json:"role"`
	Outcome    domain.LoginOutcome `json:"outcome"`
	IPAddress  string              `json:"ipAddress,omitempty"`
	UserAgent  string              `json:"userAgent,omitempty"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// ToLoginEventResponses converts the history page.
func ToLoginEventResponses(events []domain.LoginEvent) []LoginEventResponse {
	out := make([]LoginEventResponse, len(events))
	for i, e := range events {
		out[i] = LoginEventResponse{
			AccountID:  e.AccountID,
			Name:       e.Name,
			Email:      e.Email,
			Role:       e.Role,
			Outcome:    e.Outcome,
			IPAddress:  e.IPAddress,
			UserAgent:  e.UserAgent,
			OccurredAt: e.OccurredAt,
		}
	}
	return out
}

// ClientCodeResponse is one entry of the client code picker.
type ClientCodeResponse struct {
	AccountID  string `json:"accountID"`
	UniqueCode string `json:"uniqueCode"`
	Company    string `json:"company"`
	City       string `json:"city"`
}

// ToClientCodeResponses converts client accounts into picker entries.
func ToClientCodeResponses(clients []domain.Account) []ClientCodeResponse {
	out := make([]ClientCodeResponse, len(clients))
	for i, c := range clients {
		out[i] = ClientCodeResponse{
			AccountID:  c.AccountID,
			UniqueCode: c.UniqueCode,
			Company:    c.Company,
			City:       c.Location.City,
		}
	}
	return out
}
