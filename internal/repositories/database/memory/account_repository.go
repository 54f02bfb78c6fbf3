package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
)

// AccountRepository is the in-memory accounts collection.
type AccountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	email := domain.NormalizeEmail(account.Email)
	for _, existing := range s.accounts {
		if domain.NormalizeEmail(existing.Email) == email {
			return apperrors.NewAppError(http.StatusConflict, "an account with this email already exists", apperrors.ErrDuplicate)
		}
		if account.Role == domain.RoleClient && existing.Role == domain.RoleClient &&
			account.UniqueCode != "" && existing.UniqueCode == account.UniqueCode {
			return apperrors.NewValidationError(fmt.Sprintf("client code %q is already in use", account.UniqueCode))
		}
	}
	if _, ok := s.accounts[account.AccountID]; ok {
		return apperrors.NewAppError(http.StatusConflict, "account id already exists", apperrors.ErrDuplicate)
	}
	s.accounts[account.AccountID] = cloneAccount(account)
	return nil
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	// identity columns are not updatable
	account.Email = existing.Email
	account.PasswordHash = existing.PasswordHash
	account.Role = existing.Role
	account.UniqueCode = existing.UniqueCode
	account.LastLoginAt = existing.LastLoginAt
	account.CreatedAt = existing.CreatedAt
	account.CreatedBy = existing.CreatedBy
	s.accounts[account.AccountID] = cloneAccount(account)
	return nil
}

func (r *AccountRepository) TouchLastLogin(ctx context.Context, accountID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	acc.LastLoginAt = &at
	s.accounts[accountID] = acc
	return nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := cloneAccount(acc)
	return &out, nil
}

func (r *AccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, func(a domain.Account) bool {
		return domain.NormalizeEmail(a.Email) == domain.NormalizeEmail(email)
	})
}

func (r *AccountRepository) FindClientByCode(ctx context.Context, uniqueCode string) (*domain.Account, error) {
	return r.findOne(ctx, func(a domain.Account) bool {
		return a.Role == domain.RoleClient && a.UniqueCode == uniqueCode
	})
}

func (r *AccountRepository) findOne(ctx context.Context, match func(domain.Account) bool) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if match(acc) {
			out := cloneAccount(acc)
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *AccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	out := []domain.Account{}
	for _, acc := range s.accounts {
		if filter.Role != "" && acc.Role != filter.Role {
			continue
		}
		if filter.OnlyPending && acc.IsApproved {
			continue
		}
		if filter.OnlyApproved && !acc.IsApproved {
			continue
		}
		out = append(out, cloneAccount(acc))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].AccountID > out[j].AccountID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *AccountRepository) HasApprovedAdmin(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if acc.Role == domain.RoleAdmin && acc.IsApproved {
			return true, nil
		}
	}
	return false, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
