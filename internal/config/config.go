// Package config loads service settings from environment variables. Every
// field carries its variable name and default in struct tags; Load validates
// the whole set and reports every problem at once.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Convert  ConvertConfig
	Catalog  CatalogConfig
	Ingest   IngestConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds a single request, conversions included.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds job store settings. An empty URL keeps jobs in memory.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ConvertConfig holds conversion pipeline settings.
type ConvertConfig struct {
	// AllowEmptyMandatory accepts blank mandatory fields.
	AllowEmptyMandatory bool `env:"CONVERT_ALLOW_EMPTY_MANDATORY" default:"false"`

	// WriteOnValidationError emits best-effort output next to the error report.
	WriteOnValidationError bool `env:"CONVERT_WRITE_ON_VALIDATION_ERROR" default:"false"`

	// StrictUOM requires unit-of-measure fields to hold catalog codes.
	StrictUOM bool `env:"CONVERT_STRICT_UOM" default:"false"`

	OutputDir string `env:"CONVERT_OUTPUT_DIR" default:"data/converted"`
	ErrorDir  string `env:"CONVERT_ERROR_DIR" default:"data/errors"`

	// MaxFileSize accepts plain bytes or a KB/MB/GB suffix.
	MaxFileSize int64 `env:"CONVERT_MAX_FILE_SIZE" default:"50MB"`

	MaxConcurrent int           `env:"CONVERT_MAX_CONCURRENT" default:"4"`
	MaxWaitTime   time.Duration `env:"CONVERT_MAX_WAIT_TIME" default:"30s"`
}

// CatalogConfig points at optional overlay files (YAML or xlsx) extending the
// built-in country and unit catalogs.
type CatalogConfig struct {
	CountryPath string `env:"CATALOG_COUNTRY_PATH"`
	UOMPath     string `env:"CATALOG_UOM_PATH"`
}

// IngestConfig holds unattended ingestion settings.
type IngestConfig struct {
	Enabled bool `env:"INGEST_ENABLED" default:"false"`

	InputDir       string `env:"INGEST_INPUT_DIR" default:"data/inbound"`
	ProcessedDir   string `env:"INGEST_PROCESSED_DIR" default:"data/processed"`
	FailedDir      string `env:"INGEST_FAILED_DIR" default:"data/failed"`
	WorkDir        string `env:"INGEST_WORK_DIR" default:"data/work"`
	OutboxDir      string `env:"INGEST_OUTBOX_DIR" default:"data/outbox"`
	ErrorOutboxDir string `env:"INGEST_ERROR_OUTBOX_DIR" default:"data/outbox/errors"`

	// Schedule is a cron expression or descriptor; empty disables polling.
	Schedule string `env:"INGEST_SCHEDULE" default:"@every 5m"`

	// Watch also triggers a pass when the input directory changes.
	Watch bool `env:"INGEST_WATCH" default:"false"`

	UploadOnValidationError bool `env:"INGEST_UPLOAD_ON_VALIDATION_ERROR" default:"false"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies lists CIDRs whose X-Real-IP / X-Forwarded-For headers
	// are honored.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`  // debug, info, warn, error
	Format string `env:"LOG_FORMAT" default:"text"` // text or json
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
