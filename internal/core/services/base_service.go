package services

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/SscSPs/audit_portal/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	now func() time.Time
}

// ServiceOption is a functional option shared by the service constructors.
type ServiceOption func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.now = now
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	base := BaseService{now: time.Now}
	for _, option := range options {
		option(&base)
	}
	return base
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// CheckPermission runs the access control gate for caller and op.
func (s *BaseService) CheckPermission(ctx context.Context, caller *domain.Account, op domain.Operation) error {
	if caller == nil {
		return apperrors.NewAppError(http.StatusUnauthorized, "authentication required", apperrors.ErrUnauthorized)
	}
	if !domain.Permit(caller.Role, op) {
		s.LogInfo(ctx, "Operation denied",
			slog.String("account_id", caller.AccountID),
			slog.String("role", string(caller.Role)),
			slog.String("operation", string(op)))
		return apperrors.NewForbiddenError("role " + string(caller.Role) + " may not perform " + string(op))
	}
	return nil
}
