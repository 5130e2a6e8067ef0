package seeder

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/roommatch/pkg/logger"
)

// Run generates cfg.Users profiles, stores them through the API, then
// fetches and verifies the matches of cfg.Sample of them. It returns an
// error wrapping ErrRankingViolation when any ranking is inconsistent.
func Run(ctx context.Context, cfg Config, log logger.Logger) (*Stats, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	stats := &Stats{StartTime: time.Now()}
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting seeding run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("users", cfg.Users),
		logger.Int("sample", cfg.Sample),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed))

	if err := waitHealthy(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	profiles := NewGenerator(cfg.Seed, cfg.IncompletePct).Generate(cfg.Users)
	stats.ProfilesGenerated = len(profiles)
	for _, p := range profiles {
		if !p.Complete() {
			stats.IncompleteProfiles++
		}
	}

	submitProfiles(ctx, cfg, client, profiles, stats, log)

	sample := profiles
	if cfg.Sample < len(sample) {
		sample = sample[:cfg.Sample]
	}
	verr := verifySample(ctx, cfg, client, sample, stats, log)

	stats.Duration = time.Since(stats.StartTime)
	logStats(ctx, log, stats)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("seeding interrupted: %w", err)
	}
	return stats, verr
}

func waitHealthy(ctx context.Context, client *Client) error {
	var err error
	for attempt := range healthCheckRetry {
		if err = client.Healthy(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 100 * time.Millisecond):
		}
	}
	return err
}

func submitProfiles(ctx context.Context, cfg Config, client *Client, profiles []Profile, stats *Stats, log logger.Logger) {
	var stored, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, p := range profiles {
		g.Go(func() error {
			if err := client.PutProfile(gctx, p); err != nil {
				failed.Add(1)
				if cfg.Verbose {
					log.Warn(gctx, "failed to store profile", logger.String("userID", p.ID), logger.Error(err))
				}
				return nil
			}
			stored.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	stats.ProfilesStored = int(stored.Load())
	stats.ProfilesFailed = int(failed.Load())
	log.Info(ctx, "profiles submitted",
		logger.Int("stored", stats.ProfilesStored),
		logger.Int("failed", stats.ProfilesFailed))
}

func verifySample(ctx context.Context, cfg Config, client *Client, sample []Profile, stats *Stats, log logger.Logger) error {
	var (
		requested, verified, rejected, violations atomic.Int64
		errs                                      = make([]error, len(sample))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, p := range sample {
		g.Go(func() error {
			requested.Add(1)
			matches, err := client.Matches(gctx, p.ID, cfg.Limit)
			switch {
			case errors.Is(err, ErrIncompleteProfile):
				if p.Complete() {
					errs[i] = fmt.Errorf("%w: complete profile %s refused", ErrRankingViolation, p.ID)
					violations.Add(1)
				} else {
					rejected.Add(1)
				}
				return nil
			case err != nil:
				log.Warn(gctx, "failed to fetch matches", logger.String("userID", p.ID), logger.Error(err))
				return nil
			case !p.Complete():
				errs[i] = fmt.Errorf("%w: incomplete profile %s was ranked", ErrRankingViolation, p.ID)
				violations.Add(1)
				return nil
			}

			if err := Verify(p.ID, matches); err != nil {
				errs[i] = err
				violations.Add(1)
				log.Error(gctx, "ranking violation", logger.String("userID", p.ID), logger.Error(err))
				return nil
			}
			verified.Add(1)
			if cfg.Verbose && len(matches) > 0 {
				log.Debug(gctx, "matches verified",
					logger.String("userID", p.ID),
					logger.Int("matches", len(matches)),
					logger.Int("best", matches[0].Compatibility.OverallPercentage))
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.MatchesRequested = int(requested.Load())
	stats.MatchesVerified = int(verified.Load())
	stats.IncompleteRejected = int(rejected.Load())
	stats.Violations = int(violations.Load())
	return errors.Join(errs...)
}

func logStats(ctx context.Context, log logger.Logger, s *Stats) {
	var perSecond float64
	if s.Duration > 0 {
		perSecond = float64(s.ProfilesStored+s.MatchesRequested) / s.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("profilesGenerated", s.ProfilesGenerated),
		logger.Int("profilesStored", s.ProfilesStored),
		logger.Int("profilesFailed", s.ProfilesFailed),
		logger.Int("incompleteProfiles", s.IncompleteProfiles),
		logger.Int("matchesRequested", s.MatchesRequested),
		logger.Int("matchesVerified", s.MatchesVerified),
		logger.Int("incompleteRejected", s.IncompleteRejected),
		logger.Int("violations", s.Violations),
		logger.Duration("duration", s.Duration),
		logger.Float64("requestsPerSecond", perSecond))
}
