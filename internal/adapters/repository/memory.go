package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/roommatch/internal/domain/model"
	"github.com/okian/roommatch/pkg/metrics"
)

const backendMemory = "memory"

// MemoryStore keeps profiles and saved matches in process memory.
// It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]model.User
	saved map[string][]string

	opts options
	loop metricsLoop
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store and starts its metrics updater.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		users: make(map[string]model.User),
		saved: make(map[string][]string),
		opts:  defaultOptions(),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}

	s.loop.start(ctx, s.opts.metricsUpdateInterval, s.updateMetrics)
	return s
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	s.loop.stop()
	return nil
}

// Get implements ProfileStore.Get.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.User, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(backendMemory, "get", sinceMs(start)) }()

	s.mu.RLock()
	u, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u.Clone(), nil
}

// Put implements ProfileStore.Put.
func (s *MemoryStore) Put(ctx context.Context, user model.User) (model.User, error) {
	if strings.TrimSpace(user.ID) == "" {
		return model.User{}, ErrInvalidID
	}
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(backendMemory, "put", sinceMs(start)) }()

	now := s.opts.now().UTC()
	stored := user.Clone()
	stored.UpdatedAt = now

	s.mu.Lock()
	if prev, ok := s.users[user.ID]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	s.users[user.ID] = stored
	s.mu.Unlock()

	return stored.Clone(), nil
}

// Delete implements ProfileStore.Delete.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(backendMemory, "delete", sinceMs(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	delete(s.saved, id)
	for owner, ids := range s.saved {
		s.saved[owner] = slices.DeleteFunc(ids, func(m string) bool { return m == id })
	}
	return nil
}

// ListComplete implements ProfileStore.ListComplete.
func (s *MemoryStore) ListComplete(ctx context.Context, excludeID string) ([]model.User, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(backendMemory, "list_complete", sinceMs(start)) }()

	s.mu.RLock()
	out := make([]model.User, 0, len(s.users))
	for id, u := range s.users {
		if id == excludeID || !u.Profile.Complete() {
			continue
		}
		out = append(out, u.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Count implements ProfileStore.Count.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Save implements MatchStore.Save.
func (s *MemoryStore) Save(ctx context.Context, userID, matchedID string) (bool, error) {
	if userID == matchedID {
		return false, ErrSelfMatch
	}
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(backendMemory, "save_match", sinceMs(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return false, ErrNotFound
	}
	if _, ok := s.users[matchedID]; !ok {
		return false, ErrNotFound
	}
	if slices.Contains(s.saved[userID], matchedID) {
		return true, nil
	}
	s.saved[userID] = append(s.saved[userID], matchedID)
	return false, nil
}

// List implements MatchStore.List.
func (s *MemoryStore) List(ctx context.Context, userID string) ([]string, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(backendMemory, "list_matches", sinceMs(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.saved[userID]...), nil
}

// Remove implements MatchStore.Remove.
func (s *MemoryStore) Remove(ctx context.Context, userID, matchedID string) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(backendMemory, "remove_match", sinceMs(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.saved[userID]
	i := slices.Index(ids, matchedID)
	if i < 0 {
		return ErrNotFound
	}
	s.saved[userID] = slices.Delete(ids, i, i+1)
	return nil
}

func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	users := len(s.users)
	saved := 0
	for _, ids := range s.saved {
		saved += len(ids)
	}
	s.mu.RUnlock()

	metrics.UpdateRepositoryRecords(kindProfiles, users)
	metrics.UpdateRepositoryRecords(kindSavedMatches, saved)
	metrics.UpdateProfilesTotal(users)
}
