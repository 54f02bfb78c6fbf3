package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/audit_portal/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by its normalized email.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// FindClientByCode retrieves the client account holding a unique code.
	FindClientByCode(ctx context.Context, uniqueCode string) (*domain.Account, error)

	// ListAccounts retrieves accounts matching the filter, newest first.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)

	// HasApprovedAdmin reports whether at least one approved admin exists.
	HasApprovedAdmin(ctx context.Context) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. It fails with apperrors.ErrDuplicate when the
	// email is taken and with apperrors.ErrValidation when a client code is taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// TouchLastLogin stamps the account's last successful login.
	TouchLastLogin(ctx context.Context, accountID string, at time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
