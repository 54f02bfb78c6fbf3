package middleware

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// RequireStorage rejects requests with 503 DependencyUnavailable while the store cannot be
// reached, before any business logic runs.
func RequireStorage(health portsrepo.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := health.Ping(ctx); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Storage not ready", slog.String("error", err.Error()))
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
