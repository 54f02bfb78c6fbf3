package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/audit_portal/internal/core/services"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/handlers"
	"github.com/SscSPs/audit_portal/internal/middleware"
	"github.com/SscSPs/audit_portal/internal/notify"
	"github.com/SscSPs/audit_portal/internal/platform/config"
	"github.com/SscSPs/audit_portal/internal/realtime"
	"github.com/SscSPs/audit_portal/internal/repositories/database/memory"
	"github.com/SscSPs/audit_portal/internal/repositories/database/pgsql"
	"github.com/SscSPs/audit_portal/internal/utils"
	"github.com/SscSPs/audit_portal/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
)

const shutdownTimeout = 15 * time.Second

// @title Audit Portal API
// @version 1.0
// @description Inventory audit reconciliation between warehouse staff and clients.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	hub := realtime.NewHub()
	defer hub.Close()
	broadcaster := newBroadcaster(ctx, cfg, hub, logger)

	notifier := newNotifier(ctx, cfg, logger)
	defer func() {
		if cerr := notifier.Close(); cerr != nil {
			logger.Error("Error closing notifier", slog.String("error", cerr.Error()))
		}
	}()

	container := services.NewServiceContainer(cfg, repos, broadcaster, notifier)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			logger.Error("Failed to register validators", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	loginLimiter, err := middleware.NewIPLimiter(cfg.LoginRateLimit)
	if err != nil {
		logger.Error("Failed to create login rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, handlers.Dependencies{
		Health:       repos.Health,
		Hub:          hub,
		LoginLimiter: loginLimiter,
		Posthog:      posthogClient,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Websocket loops only exit once their mailboxes close.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
	container.Notifications.Wait()
	logger.Info("Server stopped")
}

// openStorage picks PostgreSQL when PGSQL_URL is set and the in-memory store otherwise.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("Using in-memory storage")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		if _, err := database.RunMigrations(cfg.DatabaseURL, database.DefaultMigrationsPath, logger); err != nil {
			dbPool.Close()
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// newBroadcaster relays through Redis when REDIS_URL is set so every instance reaches its
// own websocket clients. Without Redis, or when it is unreachable, the local hub is used.
func newBroadcaster(ctx context.Context, cfg *config.Config, hub *realtime.Hub, logger *slog.Logger) realtime.Broadcaster {
	if cfg.RedisURL == "" {
		return hub
	}
	client, err := realtime.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("Redis unavailable, real-time updates stay on this instance", slog.String("error", err.Error()))
		return hub
	}
	relay := realtime.NewRedisRelay(client, hub, logger)
	go func() {
		defer client.Close()
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Realtime relay stopped", slog.String("error", err.Error()))
		}
	}()
	return relay
}

func newNotifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) notify.Notifier {
	if cfg.PubSubProjectID == "" {
		return notify.NewLogNotifier(logger)
	}
	pub, err := notify.NewPubSubNotifier(ctx, notify.PubSubConfig{
		ProjectID:       cfg.PubSubProjectID,
		Topic:           cfg.PubSubTopic,
		CredentialsJSON: cfg.PubSubCredentialsJSON,
	})
	if err != nil {
		logger.Error("Pub/Sub unavailable, notices are only logged", slog.String("error", err.Error()))
		return notify.NewLogNotifier(logger)
	}
	return pub
}
