package repositories

import "context"

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	// Ping returns apperrors.ErrDependencyUnavailable when the store cannot be reached.
	Ping(ctx context.Context) error
}
