// Package config defines service configuration and how it is loaded.
package config

import (
	"context"
	"strings"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the profile backend: memory or postgres.
	Store string `koanf:"store"`

	// DatabaseURL is the PostgreSQL DSN used when Store is postgres.
	DatabaseURL string `koanf:"database_url"`

	// MaxMatchesLimit caps GET /matches/{id}?limit.
	MaxMatchesLimit int `koanf:"max_matches_limit"`

	// CORSAllowedOrigins is a comma-separated origin list; "*" allows all.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	// RateLimitRequests per RateLimitWindowSec per client IP; 0 disables.
	RateLimitRequests  int `koanf:"rate_limit_requests"`
	RateLimitWindowSec int `koanf:"rate_limit_window_sec"`

	// MetricsIntervalSec is how often system metrics are sampled.
	MetricsIntervalSec int `koanf:"metrics_interval_sec"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		Store:              StoreMemory,
		MaxMatchesLimit:    100,
		CORSAllowedOrigins: "*",
		RateLimitRequests:  100,
		RateLimitWindowSec: 60,
		MetricsIntervalSec: 10,
	}
}

// AllowedOrigins splits CORSAllowedOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// RateLimitWindow returns the rate limit window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSec) * time.Second
}

// MetricsInterval returns the system metrics sampling interval.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalSec) * time.Second
}
