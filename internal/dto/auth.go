package dto

import (
	"time"

	"github.com/SscSPs/audit_portal/internal/core/domain"
)

// RegisterRequest is the self-registration payload. Client-only fields are checked by the
// identity service once the role is known.
type RegisterRequest struct {
	Name       string      `json:"name" binding:"required,max=120"`
	Email      string      `json:"email" binding:"required,email"`
	Password   string      `json:"password" binding:"required,min=6,max=72"`
	Role       domain.Role `json:"role" binding:"required,oneof=staff client admin"`
	Phone      string      `json:"phone" binding:"omitempty,max=32"`
	Company    string      `json:"company" binding:"omitempty,max=200"`
	UniqueCode string      `json:"uniqueCode" binding:"omitempty,alphanum,max=32"`
	City       string      `json:"city" binding:"omitempty,max=100"`
	Pincode    string      `json:"pincode" binding:"omitempty,pincode"`
}

// LoginRequest carries the credentials of one authentication attempt.
type LoginRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Role     domain.Role `json:"role" binding:"required,oneof=staff client admin"`
	Pincode  string      `json:"pincode" binding:"omitempty,pincode"`

	// Filled in by the handler for the login history.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResult is what a successful authentication yields.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   AccountResponse `json:"account"`
}

// ToLoginResponse converts a LoginResult to its wire form.
func ToLoginResponse(res *LoginResult) LoginResponse {
	return LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Account:   ToAccountResponse(res.Account),
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
