// Package seeder loads synthetic profiles into a running service and checks
// the rankings it returns.
package seeder

import (
	"errors"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL   = "http://localhost:9080"
	DefaultUsers     = 500
	DefaultSample    = 50
	DefaultTimeout   = 30 * time.Second
	DefaultLimit     = 20
	DefaultSeed      = 1
	percentScale     = 100
	healthCheckRetry = 3
)

// ErrInvalidConfig is returned by Run for unusable settings.
var ErrInvalidConfig = errors.New("seeder: invalid config")

// Config holds the seeding run settings.
type Config struct {
	BaseURL string        // service base URL
	Users   int           // profiles to generate
	Sample  int           // users whose matches are fetched and verified
	Workers int           // concurrent HTTP requests
	Timeout time.Duration // per-request timeout
	Seed    uint64        // generator seed; equal seeds give equal profiles
	Limit   int           // limit sent to GET /matches/{id}; 0 asks for all
	// IncompletePct is the share (0..100) of profiles sent without a budget.
	IncompletePct int
	Verbose       bool
}

// Stats summarises a run.
type Stats struct {
	ProfilesGenerated  int
	ProfilesStored     int
	ProfilesFailed     int
	IncompleteProfiles int
	MatchesRequested   int
	MatchesVerified    int
	IncompleteRejected int
	Violations         int
	StartTime          time.Time
	Duration           time.Duration
}

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return errors.Join(ErrInvalidConfig, errors.New("base url is required"))
	case c.Users <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("users must be positive"))
	case c.Workers <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("workers must be positive"))
	case c.Sample < 0 || c.Limit < 0:
		return errors.Join(ErrInvalidConfig, errors.New("sample and limit must not be negative"))
	case c.IncompletePct < 0 || c.IncompletePct > percentScale:
		return errors.Join(ErrInvalidConfig, errors.New("incomplete percentage must be within 0..100"))
	}
	return nil
}
