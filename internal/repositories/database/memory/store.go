// Package memory keeps accounts, audit records and login history in process memory. It
// backs development runs without PGSQL_URL and the workflow tests.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
)

// Store is the shared, lock-guarded document map behind every memory repository.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account     // by account id
	records  map[string]domain.AuditRecord // by record id
	logins   []domain.LoginEvent           // append order
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		records:  make(map[string]domain.AuditRecord),
	}
}

// Ping always succeeds; the store lives in process.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// NewRepositoryProvider wires every repository port to one shared store.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    &AccountRepository{store: s},
		RecordRepo:     &AuditRecordRepository{store: s},
		LoginEventRepo: &LoginEventRepository{store: s},
		Health:         s,
	}
}

func cloneAccount(a domain.Account) domain.Account {
	if a.AssignedClientIDs != nil {
		a.AssignedClientIDs = append([]string(nil), a.AssignedClientIDs...)
	}
	if a.LastLoginAt != nil {
		t := *a.LastLoginAt
		a.LastLoginAt = &t
	}
	return a
}

func cloneRecord(r domain.AuditRecord) domain.AuditRecord {
	if r.Response != nil {
		resp := *r.Response
		r.Response = &resp
	}
	if r.Timestamps.RespondedAt != nil {
		t := *r.Timestamps.RespondedAt
		r.Timestamps.RespondedAt = &t
	}
	if r.Timestamps.FinalStatusAt != nil {
		t := *r.Timestamps.FinalStatusAt
		r.Timestamps.FinalStatusAt = &t
	}
	return r
}
