// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/api, cmd/worker and cmd/dupepanel.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Store drivers and bridge transports
// --------------------------------------------------------------------------

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	TransportMemory   = "memory"
	TransportPostgres = "postgres"
	TransportRedis    = "redis"
)

// --------------------------------------------------------------------------
// Config
// --------------------------------------------------------------------------

type Config struct {
	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Durable store
	StoreDriver      string
	SQLitePath       string // app process
	WorkerSQLitePath string // delivery worker process

	// Postgres (store driver and/or bridge transport)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Bridge between the app and the delivery worker
	BridgeTransport string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	// Scheduling
	PollInterval       time.Duration
	RescheduleInterval time.Duration
	ResyncInterval     time.Duration

	// Standalone worker
	WorkerMetricsPort int

	// Alerts
	AlertWebhookURL string
	AppURL          string

	// Display strings (sale date/time, weekly chart)
	Location *time.Location
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	tz := envOr("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envLevel("LOG_LEVEL", slog.LevelInfo),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		StoreDriver:      envOr("STORE_DRIVER", DriverSQLite),
		SQLitePath:       envOr("SQLITE_PATH", "dupepanel.db"),
		WorkerSQLitePath: envOr("WORKER_SQLITE_PATH", "dupepanel-worker.db"),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		BridgeTransport: envOr("BRIDGE_TRANSPORT", TransportMemory),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   envOr("REDIS_PASSWORD", ""),
		RedisDB:         envInt("REDIS_DB", 0),

		PollInterval:       envDuration("POLL_INTERVAL", 60*time.Second),
		RescheduleInterval: envDuration("RESCHEDULE_INTERVAL", 60*time.Second),
		ResyncInterval:     envDuration("RESYNC_INTERVAL", 15*time.Minute),

		WorkerMetricsPort: envInt("WORKER_METRICS_PORT", 9091),

		AlertWebhookURL: envOr("ALERT_WEBHOOK_URL", ""),
		AppURL:          envOr("APP_URL", "/dupepanel/"),

		Location: loc,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of memory, sqlite, postgres (got %q)", c.StoreDriver)
	}
	switch c.BridgeTransport {
	case TransportMemory, TransportPostgres, TransportRedis:
	default:
		return fmt.Errorf("BRIDGE_TRANSPORT must be one of memory, postgres, redis (got %q)", c.BridgeTransport)
	}
	if (c.StoreDriver == DriverPostgres || c.BridgeTransport == TransportPostgres) && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when STORE_DRIVER or BRIDGE_TRANSPORT is postgres")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// EmbeddedWorker reports whether the delivery worker has to run inside the
// app process. The memory transport cannot cross process boundaries.
func (c *Config) EmbeddedWorker() bool {
	return c.BridgeTransport == TransportMemory
}

// UsesPostgres reports whether any component needs a Postgres pool.
func (c *Config) UsesPostgres() bool {
	return c.StoreDriver == DriverPostgres || c.BridgeTransport == TransportPostgres
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
