package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

type healthHandler struct {
	health portsrepo.HealthChecker
}

// health godoc
// @Summary Health check
// @Description Reports whether the service and its storage are reachable.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *healthHandler) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	res := dto.HealthResponse{Status: "ok", Database: "connected", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	status := http.StatusOK
	if err := h.health.Ping(ctx); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Health check failed", slog.String("error", err.Error()))
		res.Status = "degraded"
		res.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, res)
}
