package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseDriver   string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"20"`

	// Transport
	HTTPAddr string `env:"HTTP_ADDR" envDefault:"0.0.0.0:3000"`
	GRPCAddr string `env:"GRPC_ADDR" envDefault:"0.0.0.0:50051"`

	// Tokens
	AccessTokenSecret  string        `env:"JWT_ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret string        `env:"JWT_REFRESH_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	RefreshRotateBelow time.Duration `env:"REFRESH_ROTATE_BELOW" envDefault:"336h"`
	TokenCleanupPeriod time.Duration `env:"TOKEN_CLEANUP_INTERVAL" envDefault:"1h"`

	// Password hashing, parsed into HashCost by Load
	HashCostRaw string `env:"SALT_OR_ROUNDS"`
	HashCost    int

	// OTP
	RedisURL           string        `env:"REDIS_URL"`
	OTPRequestCooldown time.Duration `env:"OTP_REQUEST_COOLDOWN" envDefault:"60s"`

	// Email
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"MAILER_PASS"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"Greenie <noreply@greenie.app>"`

	// Rate limiting on auth endpoints
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`

	// Observability
	Environment  string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN    string `env:"SENTRY_DSN"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"greenie-backend"`

	// Worker Pool
	EmailWorkerPoolSize int `env:"EMAIL_WORKER_POOL_SIZE" envDefault:"5"`
	EmailTaskQueueSize  int `env:"EMAIL_TASK_QUEUE_SIZE" envDefault:"100"`
}

// Load loads configuration from a .env file (when present) and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration and derives parsed values
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "sqlite" {
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite")
	}
	if len(c.AccessTokenSecret) < 32 {
		return fmt.Errorf("JWT_ACCESS_TOKEN_SECRET must be at least 32 characters")
	}
	if len(c.RefreshTokenSecret) < 32 {
		return fmt.Errorf("JWT_REFRESH_TOKEN_SECRET must be at least 32 characters")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return fmt.Errorf("JWT_ACCESS_TOKEN_SECRET and JWT_REFRESH_TOKEN_SECRET must differ")
	}
	if err := utils.ValidateTokenTTL(c.AccessTokenTTL); err != nil {
		return fmt.Errorf("ACCESS_TOKEN_TTL: %w", err)
	}
	if err := utils.ValidateTokenTTL(c.RefreshTokenTTL); err != nil {
		return fmt.Errorf("REFRESH_TOKEN_TTL: %w", err)
	}
	if c.RefreshRotateBelow <= 0 || c.RefreshRotateBelow >= c.RefreshTokenTTL {
		return fmt.Errorf("REFRESH_ROTATE_BELOW must be positive and shorter than REFRESH_TOKEN_TTL")
	}

	cost, err := utils.ParseHashCost(c.HashCostRaw)
	if err != nil {
		return err
	}
	c.HashCost = cost

	return nil
}
