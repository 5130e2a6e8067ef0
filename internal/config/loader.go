package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix     = "ROOMMATCH_"
	EnvConfigFile = "ROOMMATCH_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if ROOMMATCH_CONFIG is set
//  3. env (prefix ROOMMATCH_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// ROOMMATCH_MAX_MATCHES_LIMIT -> max_matches_limit
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field rules of a loaded config.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Store != StoreMemory && c.Store != StorePostgres:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	case c.Store == StorePostgres && c.DatabaseURL == "":
		return fmt.Errorf("%w: database_url is required for the postgres store", ErrInvalidConfig)
	case c.MaxMatchesLimit <= 0:
		return fmt.Errorf("%w: max_matches_limit must be positive", ErrInvalidConfig)
	case c.RateLimitRequests < 0:
		return fmt.Errorf("%w: rate_limit_requests must not be negative", ErrInvalidConfig)
	case c.RateLimitRequests > 0 && c.RateLimitWindowSec <= 0:
		return fmt.Errorf("%w: rate_limit_window_sec must be positive", ErrInvalidConfig)
	case c.MetricsIntervalSec <= 0:
		return fmt.Errorf("%w: metrics_interval_sec must be positive", ErrInvalidConfig)
	}
	return nil
}
