package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/audit_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
)

// LoginEventRepository is the in-memory login history.
type LoginEventRepository struct {
	store *Store
}

var _ portsrepo.LoginEventRepository = (*LoginEventRepository)(nil)

func (r *LoginEventRepository) SaveLoginEvent(ctx context.Context, event domain.LoginEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	r.store.logins = append(r.store.logins, event)
	r.store.mu.Unlock()
	return nil
}

func (r *LoginEventRepository) ListLoginEvents(ctx context.Context, limit int, offset int) ([]domain.LoginEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	r.store.mu.RLock()
	out := make([]domain.LoginEvent, 0, len(r.store.logins))
	for i := len(r.store.logins) - 1; i >= 0; i-- {
		out = append(out, r.store.logins[i])
	}
	r.store.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	return paginate(out, limit, offset), nil
}
