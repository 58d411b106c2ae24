// Package config loads the application configuration from environment
// variables with defaults, and validates it on startup so misconfiguration
// fails fast.
package config

import (
	"strconv"
	"time"

	"github.com/JonMunkholm/mseboard/internal/unit"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Units       UnitsConfig
	Credentials CredentialsConfig
	Export      ExportConfig
	Archive     ArchiveConfig
	Rate        RateLimitConfig
	Security    SecurityConfig
	Logging     LoggingConfig
	Metrics     MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"3m"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including waiting for
	// running exports.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for API requests.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds PostgreSQL pool settings.
type DatabaseConfig struct {
	// URL is required by the server; DB_URL is accepted for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" envAlt:"DB_POOL_MAX" default:"20"`
	MinConns        int           `env:"DB_MIN_CONNS" envAlt:"DB_POOL_MIN" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// UnitsConfig describes the configured bureaus and expert panels.
type UnitsConfig struct {
	// BureauCount numbers bureaus 1..BureauCount.
	BureauCount int `env:"BUREAU_COUNT" default:"42"`

	// ExcludedBureaus are numbers inside the range that do not exist.
	ExcludedBureaus []int `env:"EXCLUDED_BUREAUS" default:"25,26,27,31,41"`

	// Experts lists expert panel numbers in sheet order.
	Experts []int `env:"EXPERTS" envAlt:"EXPERT_PANELS" default:"1,2,3,5,8,9"`
}

// Directory builds the unit directory.
func (c *UnitsConfig) Directory() (*unit.Directory, error) {
	return unit.NewDirectory(c.BureauCount, c.ExcludedBureaus, c.Experts)
}

// CredentialsConfig holds the passwords seeded for units without one.
type CredentialsConfig struct {
	DefaultPassword string `env:"DEFAULT_PASSWORD" default:"00000"`

	// OversightPassword is required by the server.
	OversightPassword string `env:"OMO_PASSWORD"`
}

// ExportConfig bounds workbook generation.
type ExportConfig struct {
	MaxConcurrent int           `env:"EXPORT_MAX_CONCURRENT" default:"4"`
	MaxWaitTime   time.Duration `env:"EXPORT_MAX_WAIT_TIME" default:"15s"`
	Timeout       time.Duration `env:"EXPORT_TIMEOUT" default:"2m"`
}

// ArchiveConfig holds the periodic S3 snapshot settings.
type ArchiveConfig struct {
	Enabled bool `env:"ARCHIVE_ENABLED" default:"false"`

	Bucket    string `env:"ARCHIVE_S3_BUCKET"`
	Region    string `env:"ARCHIVE_S3_REGION" envAlt:"AWS_REGION" default:"us-east-1"`
	Endpoint  string `env:"ARCHIVE_S3_ENDPOINT"`
	PathStyle bool   `env:"ARCHIVE_S3_PATH_STYLE" default:"false"`

	// AccessKeyID and SecretAccessKey are optional; the default AWS
	// credential chain is used when empty.
	AccessKeyID     string `env:"ARCHIVE_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"ARCHIVE_S3_SECRET_ACCESS_KEY"`

	Prefix   string        `env:"ARCHIVE_PREFIX" default:"snapshots"`
	Interval time.Duration `env:"ARCHIVE_INTERVAL" default:"24h"`
}

// RateLimitConfig holds per-IP rate limits.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ExportLimit is requests per minute for export endpoints.
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"10"`

	// LoginLimit is requests per minute for login and password endpoints.
	LoginLimit int `env:"RATE_LIMIT_LOGIN" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers.
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is text or json.
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Process adds Go runtime and process collectors.
	Process bool `env:"METRICS_PROCESS" default:"true"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
