package services

import (
	"context"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/SscSPs/audit_portal/internal/dto"
)

// IdentityAuthSvc covers registration and session handling.
type IdentityAuthSvc interface {
	// Register creates an unapproved account. Client accounts must carry company, unique
	// code, city and pincode.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)
	// Authenticate checks credentials, records the attempt and issues a session token.
	Authenticate(ctx context.Context, req dto.LoginRequest) (*dto.LoginResult, error)
	// Authorize resolves a session token to the account it was issued for.
	Authorize(ctx context.Context, token string) (*domain.Account, error)
}

// IdentityReaderSvc defines read operations on accounts.
type IdentityReaderSvc interface {
	GetAccount(ctx context.Context, caller *domain.Account, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, caller *domain.Account, params dto.ListParams) ([]domain.Account, error)
	ListPendingAccounts(ctx context.Context, caller *domain.Account) ([]domain.Account, error)
	ListLoginHistory(ctx context.Context, caller *domain.Account, params dto.ListParams) ([]domain.LoginEvent, error)
	// ListClientCodes returns the approved clients a record may be associated with.
	ListClientCodes(ctx context.Context, caller *domain.Account) ([]domain.Account, error)
}

// IdentityWriterSvc defines admin mutations on accounts.
type IdentityWriterSvc interface {
	// Approve is idempotent; only the first approval notifies the account holder.
	Approve(ctx context.Context, caller *domain.Account, accountID string) (*domain.Account, error)
	UpdateAccountDetails(ctx context.Context, caller *domain.Account, accountID string, req dto.UpdateAccountDetailsRequest) (*domain.Account, error)
}

// IdentitySvcFacade combines all identity-related service interfaces
type IdentitySvcFacade interface {
	IdentityAuthSvc
	IdentityReaderSvc
	IdentityWriterSvc
}
