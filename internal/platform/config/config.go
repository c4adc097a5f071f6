// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration.
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	TimeZone    string `env:"APP_TIMEZONE" envDefault:"America/Sao_Paulo"`

	Server         Server
	Database       Database
	Redis          RedisConfig
	Payment        Payment
	Interpretation Interpretation
	Report         Report
	ObjectStore    ObjectStore
	Mail           Mail
	Events         Events
	Auth           Auth
	RateLimit      RateLimit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// PreviewEnabled exposes POST /readings/preview, which skips payment.
	PreviewEnabled bool `env:"READING_PREVIEW_ENABLED" envDefault:"false"`
}

// Database selects the SQL driver. Driver is "postgres" or "sqlite"; an empty
// DSN keeps everything in memory.
type Database struct {
	Driver          string        `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DSN             string        `env:"DATABASE_DSN"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig is optional; an empty URL disables Redis-backed stores.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Payment configures the Mercado Pago checkout.
type Payment struct {
	AccessToken         string        `env:"MP_ACCESS_TOKEN"`
	PublicKey           string        `env:"MP_PUBLIC_KEY"`
	APIBaseURL          string        `env:"MP_API_BASE_URL" envDefault:"https://api.mercadopago.com"`
	FrontendBaseURL     string        `env:"MP_BASE_URL" envDefault:"http://localhost:8080"`
	// PublicBaseURL is where this server is reachable from the gateway; return
	// and webhook URLs hang off it. Empty falls back to FrontendBaseURL.
	PublicBaseURL       string        `env:"PUBLIC_BASE_URL"`
	NotificationURL     string        `env:"MP_NOTIFICATION_URL"`
	Amount              float64       `env:"PAYMENT_AMOUNT" envDefault:"29.90"`
	Currency            string        `env:"PAYMENT_CURRENCY" envDefault:"BRL"`
	Description         string        `env:"PAYMENT_DESCRIPTION" envDefault:"Análise Numerológica Cósmica"`
	StatementDescriptor string        `env:"PAYMENT_STATEMENT_DESCRIPTOR" envDefault:"Numerologia Cósmica"`
	Timeout             time.Duration `env:"MP_TIMEOUT" envDefault:"15s"`
	StatusCacheTTL      time.Duration `env:"PAYMENT_STATUS_CACHE_TTL" envDefault:"720h"`
}

// Interpretation configures the language-model provider.
type Interpretation struct {
	APIKey      string        `env:"OPENAI_API_KEY"`
	BaseURL     string        `env:"OPENAI_BASE_URL"`
	Model       string        `env:"OPENAI_MODEL" envDefault:"gpt-4-turbo"`
	MaxTokens   int64         `env:"OPENAI_MAX_TOKENS" envDefault:"2000"`
	Temperature float64       `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	Timeout     time.Duration `env:"OPENAI_TIMEOUT" envDefault:"60s"`
	// Breaker thresholds; the provider is skipped while open.
	BreakerFailures int           `env:"OPENAI_BREAKER_FAILURES" envDefault:"3"`
	BreakerCooldown time.Duration `env:"OPENAI_BREAKER_COOLDOWN" envDefault:"1m"`
}

// Report configures PDF rendering.
type Report struct {
	Title  string `env:"REPORT_TITLE" envDefault:"Análise Numerológica Cósmica"`
	Author string `env:"REPORT_AUTHOR" envDefault:"Numerologia Cósmica"`
}

// ObjectStore configures the MinIO/S3 archive. An empty endpoint archives in memory.
type ObjectStore struct {
	Endpoint  string `env:"OBJECT_STORE_ENDPOINT"`
	AccessKey string `env:"OBJECT_STORE_ACCESS_KEY"`
	SecretKey string `env:"OBJECT_STORE_SECRET_KEY"`
	Bucket    string `env:"OBJECT_STORE_BUCKET" envDefault:"readings"`
	UseSSL    bool   `env:"OBJECT_STORE_USE_SSL" envDefault:"false"`
}

// Mail configures SMTP. An empty host logs messages instead of sending them.
type Mail struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM" envDefault:"Numerologia Cósmica <contato@ckao.in>"`
	ReplyTo  string `env:"MAIL_REPLY_TO" envDefault:"contato@ckao.in"`
}

// Events selects the event backend: "log", "kafka" or "nats".
type Events struct {
	Backend      string   `env:"EVENTS_BACKEND" envDefault:"log"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"numerology.events"`
	NATSURL      string   `env:"NATS_URL"`
	NATSSubject  string   `env:"NATS_SUBJECT_PREFIX" envDefault:"numerology"`
}

// Auth configures reading access tokens.
type Auth struct {
	SigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"cosmonumero"`
	TokenTTL   time.Duration `env:"READING_TOKEN_TTL" envDefault:"72h"`
}

// RateLimit sets per-IP requests per window for each endpoint class.
type RateLimit struct {
	Enabled  bool          `env:"RATELIMIT_ENABLED" envDefault:"true"`
	Window   time.Duration `env:"RATELIMIT_WINDOW" envDefault:"1m"`
	Checkout int           `env:"RATELIMIT_CHECKOUT" envDefault:"10"`
	Reading  int           `env:"RATELIMIT_READING" envDefault:"20"`
	Webhook  int           `env:"RATELIMIT_WEBHOOK" envDefault:"120"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Validate rejects combinations that cannot run.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.Database.Driver))
	}
	switch c.Events.Backend {
	case "log":
	case "kafka":
		if len(c.Events.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka events backend"))
		}
	case "nats":
		if c.Events.NATSURL == "" {
			errs = append(errs, errors.New("NATS_URL is required for the nats events backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("EVENTS_BACKEND must be log, kafka or nats, got %q", c.Events.Backend))
	}
	if c.Payment.Amount <= 0 {
		errs = append(errs, errors.New("PAYMENT_AMOUNT must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATELIMIT_WINDOW must be positive"))
	}
	if c.IsProduction() {
		if c.Payment.AccessToken == "" {
			errs = append(errs, errors.New("MP_ACCESS_TOKEN is required in production"))
		}
		if c.Auth.SigningKey == "" || c.Auth.SigningKey == "dev-secret-key-change-in-production" {
			errs = append(errs, errors.New("JWT_SIGNING_KEY must be set in production"))
		}
		if c.Server.PreviewEnabled {
			errs = append(errs, errors.New("READING_PREVIEW_ENABLED must be false in production"))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
