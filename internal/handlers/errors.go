package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/core/domain"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError translates err into the standard error body. Server-side failures are
// logged with their cause and answered with a generic message.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)
	kind := apperrors.Kind(err)

	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()), slog.String("kind", kind))
		body := "internal server error"
		if kind == "DependencyUnavailable" {
			body = "a backing service is unavailable, please retry"
		}
		c.JSON(status, dto.ErrorResponse{Error: body, Kind: kind})
		return
	}

	logger.Warn(msg, slog.String("error", err.Error()), slog.String("kind", kind))
	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	c.JSON(status, dto.ErrorResponse{Error: message, Kind: kind})
}

// respondBindError answers a request whose body or query failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error(), Kind: "ValidationError"})
}

// callerFrom returns the authenticated account or answers 401.
func callerFrom(c *gin.Context) (*domain.Account, bool) {
	account, ok := middleware.GetAccountFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Account not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Kind: "Unauthenticated"})
		return nil, false
	}
	return account, true
}
