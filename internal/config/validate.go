package config

import (
	"fmt"
	"strings"
)

// problems collects validation failures so one run reports all of them.
type problems []string

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Sprintf(format, args...))
	}
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(p, "\n  - "))
}

// Validate checks the full server configuration and describes every
// failure in one error.
func (c *Config) Validate() error {
	return c.validate(true)
}

func (c *Config) validate(server bool) error {
	var p problems

	db := c.Database
	p.check(!server || db.URL != "", "DATABASE_URL is required")
	p.check(db.MaxConns > 0, "DB_MAX_CONNS must be positive")
	p.check(db.MinConns >= 0, "DB_MIN_CONNS must be non-negative")
	p.check(db.MaxConns >= db.MinConns, "DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", db.MaxConns, db.MinConns)

	srv := c.Server
	p.check(srv.Port > 0 && srv.Port <= 65535, "SERVER_PORT (%d) must be 1-65535", srv.Port)
	p.check(srv.ReadTimeout >= 0, "SERVER_READ_TIMEOUT must be non-negative")
	p.check(srv.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")

	if _, err := c.Units.Directory(); err != nil {
		p.check(false, "BUREAU_COUNT/EXPERTS: %v", err)
	}

	p.check(!server || c.Credentials.OversightPassword != "", "OMO_PASSWORD is required")
	p.check(c.Credentials.DefaultPassword != "", "DEFAULT_PASSWORD must not be empty")

	p.check(c.Export.MaxConcurrent > 0, "EXPORT_MAX_CONCURRENT must be positive")
	p.check(c.Export.MaxWaitTime > 0, "EXPORT_MAX_WAIT_TIME must be positive")
	p.check(c.Export.Timeout > 0, "EXPORT_TIMEOUT must be positive")

	if c.Archive.Enabled {
		p.check(c.Archive.Bucket != "", "ARCHIVE_S3_BUCKET is required when ARCHIVE_ENABLED is true")
		p.check(c.Archive.Interval > 0, "ARCHIVE_INTERVAL must be positive")
	}

	if c.Rate.Enabled {
		p.check(c.Rate.RequestsPerMinute > 0, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
		p.check(c.Rate.ExportLimit > 0, "RATE_LIMIT_EXPORT must be positive when rate limiting is enabled")
		p.check(c.Rate.LoginLimit > 0, "RATE_LIMIT_LOGIN must be positive when rate limiting is enabled")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		p.check(false, "LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		p.check(false, "LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	return p.err()
}

// String returns the configuration for logging with the database URL and
// passwords masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: {Host: %q, Port: %d}, "+
		"Database: {URL: [MASKED], MaxConns: %d, MinConns: %d}, "+
		"Units: {BureauCount: %d, Excluded: %v, Experts: %v}, "+
		"Credentials: [MASKED], "+
		"Export: {MaxConcurrent: %d, MaxWaitTime: %s}, "+
		"Archive: {Enabled: %v, Bucket: %q, Interval: %s}, "+
		"Rate: {Enabled: %v, RequestsPerMinute: %d}, "+
		"Logging: {Level: %q, Format: %q}}",
		c.Server.Host, c.Server.Port,
		c.Database.MaxConns, c.Database.MinConns,
		c.Units.BureauCount, c.Units.ExcludedBureaus, c.Units.Experts,
		c.Export.MaxConcurrent, c.Export.MaxWaitTime,
		c.Archive.Enabled, c.Archive.Bucket, c.Archive.Interval,
		c.Rate.Enabled, c.Rate.RequestsPerMinute,
		c.Logging.Level, c.Logging.Format,
	)
}
