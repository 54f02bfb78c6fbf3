package middleware

import (
	"errors"
	"net/http"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/gin-gonic/gin"
)

// AbortWithError stops the chain and writes the standard error body for err.
func AbortWithError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg, Kind: apperrors.Kind(err)})
}
