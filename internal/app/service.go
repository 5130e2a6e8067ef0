// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	repository "github.com/okian/roommatch/internal/adapters/repository"
	"github.com/okian/roommatch/internal/domain/model"
	"github.com/okian/roommatch/internal/domain/ranking"
	"github.com/okian/roommatch/internal/domain/scoring"
	"github.com/okian/roommatch/internal/domain/types"
	"github.com/okian/roommatch/pkg/logger"
	"github.com/okian/roommatch/pkg/metrics"
)

const defaultMaxMatches = 100

// Service implements the API dependencies for roommate matching.
type Service struct {
	mu sync.RWMutex

	profiles repository.ProfileStore
	matches  repository.MatchStore
	closers  []io.Closer

	maxMatches int

	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxMatches: defaultMaxMatches,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start fills in any missing collaborator with an in-memory store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matching service...")

	if s.profiles == nil || s.matches == nil {
		mem := repository.NewMemoryStore(ctx)
		s.closers = append(s.closers, mem)
		if s.profiles == nil {
			s.profiles = mem
		}
		if s.matches == nil {
			s.matches = mem
		}
		s.logger.Info(ctx, "using in-memory store")
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "matching service started", logger.Int("maxMatches", s.maxMatches))
	return nil
}

// Stop closes every store the service owns.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping matching service...")

	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn(context.Background(), "failed to close store", logger.Error(err))
		}
	}
	s.closers = nil
	s.started = false
	s.logger.Info(context.Background(), "matching service stopped")
}

func (s *Service) stores() (repository.ProfileStore, repository.MatchStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.profiles, s.matches, nil
}

// MaxMatches returns the largest limit Matches accepts.
func (s *Service) MaxMatches() int { return s.maxMatches }

// Matches ranks every complete profile against userID. A limit of 0 returns
// all of them.
func (s *Service) Matches(ctx context.Context, userID string, limit int) ([]ranking.RankedMatch, error) {
	if limit < 0 || limit > s.maxMatches {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrInvalidLimit, limit, s.maxMatches)
	}
	profiles, _, err := s.stores()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		requester  model.User
		candidates []model.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requester, err = profiles.Get(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		candidates, err = profiles.ListComplete(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked, err := ranking.Rank(requester.Profile, candidates)
	if err != nil {
		if errors.Is(err, ranking.ErrProfileIncomplete) {
			metrics.RecordIncompleteProfile()
		}
		return nil, err
	}

	metrics.RecordPairsScored(len(candidates))
	metrics.RecordMatchRequest(len(candidates), float64(time.Since(start).Microseconds())/1000)
	s.logger.Debug(ctx, "ranked matches",
		logger.String("userID", userID),
		logger.Int("candidates", len(candidates)),
		logger.Duration("elapsed", time.Since(start)),
	)

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Compatibility scores two ad-hoc profiles.
func (s *Service) Compatibility(ctx context.Context, a, b model.Profile) scoring.Result {
	metrics.RecordCompatibilityCheck()
	metrics.RecordPairsScored(1)
	return scoring.Score(a, b)
}

// CompatibilityBetween scores two stored users.
func (s *Service) CompatibilityBetween(ctx context.Context, userID, otherID string) (scoring.Result, error) {
	profiles, _, err := s.stores()
	if err != nil {
		return scoring.Result{}, err
	}
	var a, b model.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { a, err = profiles.Get(gctx, userID); return err })
	g.Go(func() (err error) { b, err = profiles.Get(gctx, otherID); return err })
	if err := g.Wait(); err != nil {
		return scoring.Result{}, err
	}
	return s.Compatibility(ctx, a.Profile, b.Profile), nil
}

// UpsertProfile stores a user record.
func (s *Service) UpsertProfile(ctx context.Context, u model.User) (model.User, error) {
	profiles, _, err := s.stores()
	if err != nil {
		return model.User{}, err
	}
	stored, err := profiles.Put(ctx, u)
	if err != nil {
		return model.User{}, err
	}
	metrics.RecordProfileUpsert()
	s.logger.Debug(ctx, "profile stored",
		logger.String("userID", stored.ID),
		logger.Bool("complete", stored.Profile.Complete()),
	)
	return stored, nil
}

// GetProfile returns a stored user.
func (s *Service) GetProfile(ctx context.Context, id string) (model.User, error) {
	profiles, _, err := s.stores()
	if err != nil {
		return model.User{}, err
	}
	return profiles.Get(ctx, id)
}

// DeleteProfile removes a user.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	profiles, _, err := s.stores()
	if err != nil {
		return err
	}
	if err := profiles.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordProfileDelete()
	return nil
}

// SaveMatch records that userID saved matchedID. Saving twice is not an
// error; alreadySaved reports it.
func (s *Service) SaveMatch(ctx context.Context, userID, matchedID string) (bool, error) {
	_, matches, err := s.stores()
	if err != nil {
		return false, err
	}
	already, err := matches.Save(ctx, userID, matchedID)
	if err != nil {
		return false, err
	}
	if !already {
		metrics.RecordSavedMatch()
	}
	return already, nil
}

// SavedMatches returns the public records of the users userID saved, in
// save order. Saved ids whose user no longer exists are skipped.
func (s *Service) SavedMatches(ctx context.Context, userID string) ([]types.PublicUser, error) {
	profiles, matches, err := s.stores()
	if err != nil {
		return nil, err
	}
	if _, err := profiles.Get(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := matches.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]types.PublicUser, 0, len(ids))
	for _, id := range ids {
		u, err := profiles.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, types.Public(u))
	}
	return out, nil
}

// Unmatch drops a saved match. removed is false when there was nothing to
// drop.
func (s *Service) Unmatch(ctx context.Context, userID, matchedID string) (bool, error) {
	_, matches, err := s.stores()
	if err != nil {
		return false, err
	}
	err = matches.Remove(ctx, userID, matchedID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	metrics.RecordUnmatch()
	return true, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":    s.started,
		"maxMatches": s.maxMatches,
	}
	if s.started {
		total := s.profiles.Count(context.Background())
		stats["totalProfiles"] = total
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		metrics.UpdateProfilesTotal(total)
	}
	return stats
}
