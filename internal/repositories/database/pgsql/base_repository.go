package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation        = "23505"
	numericValueOutOfRange = "22003"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.HealthChecker = (*BaseRepository)(nil)

// Ping checks that the pool can reach the database.
func (r *BaseRepository) Ping(ctx context.Context) error {
	if r.Pool == nil {
		return apperrors.NewUnavailableError("database is not configured", errors.New("nil pool"))
	}
	if err := r.Pool.Ping(ctx); err != nil {
		return apperrors.NewUnavailableError("database is unreachable", err)
	}
	return nil
}

// wrapError classifies a pgx error. Missing rows become apperrors.ErrNotFound, numeric
// overflow becomes apperrors.ErrValidation and connectivity problems become
// apperrors.ErrDependencyUnavailable; anything else is wrapped with the operation name.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == numericValueOutOfRange {
		return apperrors.NewValidationError("value is out of range")
	}
	if isUnavailable(err) {
		return apperrors.NewUnavailableError("database is unavailable", fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception, 57P0x: server shutting down
		return len(pgErr.Code) == 5 && (pgErr.Code[:2] == "08" || pgErr.Code[:4] == "57P0")
	}
	return false
}

// uniqueConstraint returns the violated unique constraint name, if any.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
