// Package repository persists user profiles and saved matches.
package repository

import (
	"context"

	"github.com/okian/roommatch/internal/domain/model"
)

// ProfileStore provides read/write access to user profiles.
type ProfileStore interface {
	// Get returns the user with id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.User, error)

	// Put creates or replaces a user. CreatedAt is kept across updates and
	// UpdatedAt is stamped on every write. The stored record is returned.
	Put(ctx context.Context, user model.User) (model.User, error)

	// Delete removes a user and every saved match that references it.
	// Returns ErrNotFound if the user is unknown.
	Delete(ctx context.Context, id string) error

	// ListComplete returns every user whose profile has both preferences
	// and a budget, except excludeID, ordered by id.
	ListComplete(ctx context.Context, excludeID string) ([]model.User, error)

	// Count returns the number of stored users.
	Count(ctx context.Context) int
}

// MatchStore records which candidates a user has saved.
type MatchStore interface {
	// Save stores matchedID for userID. alreadySaved is true when the pair
	// existed. Both users must exist.
	Save(ctx context.Context, userID, matchedID string) (alreadySaved bool, err error)

	// List returns the saved ids of userID in save order.
	List(ctx context.Context, userID string) ([]string, error)

	// Remove deletes a saved pair, or returns ErrNotFound.
	Remove(ctx context.Context, userID, matchedID string) error
}

// Store is a backend that holds both profiles and saved matches.
type Store interface {
	ProfileStore
	MatchStore
	Close() error
}

// Record kinds used for metrics.
const (
	kindProfiles     = "profiles"
	kindSavedMatches = "saved_matches"
)
