package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	RunMigrations     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// BootstrapAdminEmail is the one admin email allowed to self-approve while no approved
	// admin exists yet.
	BootstrapAdminEmail string

	CORSAllowedOrigins []string
	LoginRateLimit     string // ulule formatted, e.g. "5-M"

	// Notification transports
	RedisURL              string
	PubSubProjectID       string
	PubSubTopic           string
	PubSubCredentialsJSON string
	PhoneDefaultRegion    string
	NotifyTimeout         time.Duration

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "audit-portal")
	viper.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("PUBSUB_PROJECT_ID", "")
	viper.SetDefault("PUBSUB_TOPIC", "audit-notices")
	viper.SetDefault("PUBSUB_CREDENTIALS_JSON", "")
	viper.SetDefault("PHONE_DEFAULT_REGION", "IN")
	viper.SetDefault("NOTIFY_TIMEOUT", "10s")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL not set. Using the in-memory store, data is lost on restart.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", 24*time.Hour)

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "audit-portal"
	}

	cfg.BootstrapAdminEmail = strings.ToLower(strings.TrimSpace(viper.GetString("BOOTSTRAP_ADMIN_EMAIL")))
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.PubSubProjectID = viper.GetString("PUBSUB_PROJECT_ID")
	cfg.PubSubTopic = viper.GetString("PUBSUB_TOPIC")
	cfg.PubSubCredentialsJSON = viper.GetString("PUBSUB_CREDENTIALS_JSON")
	if cfg.PubSubProjectID == "" {
		log.Println("Warning: PUBSUB_PROJECT_ID not set. Out-of-band notices are only logged.")
	}
	cfg.PhoneDefaultRegion = strings.ToUpper(viper.GetString("PHONE_DEFAULT_REGION"))
	cfg.NotifyTimeout = durationOrDefault("NOTIFY_TIMEOUT", 10*time.Second)

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
