package repositories

import (
	"context"

	"github.com/SscSPs/audit_portal/internal/core/domain"
)

// LoginEventRepository stores the append-only login history.
type LoginEventRepository interface {
	// SaveLoginEvent appends one authentication attempt.
	SaveLoginEvent(ctx context.Context, event domain.LoginEvent) error

	// ListLoginEvents retrieves a page of the history, newest first.
	ListLoginEvents(ctx context.Context, limit int, offset int) ([]domain.LoginEvent, error)
}
