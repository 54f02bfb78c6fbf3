package handlers

import (
	"github.com/SscSPs/audit_portal/cmd/docs"
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/middleware"
	"github.com/SscSPs/audit_portal/internal/platform/config"
	"github.com/SscSPs/audit_portal/internal/realtime"
	"github.com/SscSPs/audit_portal/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// Dependencies are the non-service collaborators the routes need.
type Dependencies struct {
	Health       portsrepo.HealthChecker
	Hub          *realtime.Hub
	LoginLimiter *limiter.Limiter
	Posthog      *utils.PosthogClientWrapper
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps Dependencies,
) {
	h := &healthHandler{health: deps.Health}
	r.GET("/health", h.check)

	api := r.Group("/api/v1")

	// Public authentication routes
	loginLimit := func(c *gin.Context) { c.Next() }
	if deps.LoginLimiter != nil {
		loginLimit = middleware.RateLimit(deps.LoginLimiter)
	}
	registerAuthRoutes(api.Group("", middleware.RequireStorage(deps.Health)), services.Identity, loginLimit)

	setupAPIV1Routes(api, cfg, services, deps)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated part of /api/v1 and delegates to specific
// entity route registrations
func setupAPIV1Routes(
	api *gin.RouterGroup,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps Dependencies,
) {
	// Storage gate first so a dead database answers 503 before token checks hit it.
	v1 := api.Group("",
		middleware.RequireStorage(deps.Health),
		middleware.AuthMiddleware(services.Identity),
		middleware.PosthogMiddleware(deps.Posthog),
	)

	registerSessionRoutes(v1, services.Identity)
	registerAccountRoutes(v1, services.Identity)
	registerRecordRoutes(v1, services.Records)
	if deps.Hub != nil {
		registerRealtimeRoutes(v1, deps.Hub, cfg.CORSAllowedOrigins)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
