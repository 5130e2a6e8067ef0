package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/roommatch/internal/domain/model"
	"github.com/okian/roommatch/pkg/metrics"
)

const (
	backendPostgres     = "postgres"
	pgForeignKeyViolate = "23503"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL DEFAULT '',
	bio          TEXT NOT NULL DEFAULT '',
	occupation   TEXT NOT NULL DEFAULT '',
	gender       TEXT NOT NULL DEFAULT '',
	neighborhood TEXT,
	budget_min   DOUBLE PRECISION,
	budget_max   DOUBLE PRECISION,
	age          INTEGER,
	preferences  JSONB,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS profiles_complete_idx
	ON profiles (id) WHERE preferences IS NOT NULL AND budget_min IS NOT NULL;

CREATE TABLE IF NOT EXISTS saved_matches (
	seq             BIGSERIAL,
	user_id         TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	matched_user_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, matched_user_id)
);
`

const profileColumns = `id, name, bio, occupation, gender, neighborhood, budget_min, budget_max, age, preferences, created_at, updated_at`

// PostgresStore keeps profiles and saved matches in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	opts options
	loop metricsLoop
}

var _ Store = (*PostgresStore)(nil)

// Connect opens a pool to databaseURL, verifies it and starts the metrics
// updater. Call Migrate before first use on an empty database.
func Connect(ctx context.Context, databaseURL string, opts ...Option) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool, opts: defaultOptions()}
	for _, opt := range opts {
		opt(&s.opts)
	}
	s.loop.start(ctx, s.opts.metricsUpdateInterval, func() { s.updateMetrics(ctx) })
	return s, nil
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close stops the metrics updater and closes the pool.
func (s *PostgresStore) Close() error {
	s.loop.stop()
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Get implements ProfileStore.Get.
func (s *PostgresStore) Get(ctx context.Context, id string) (model.User, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(backendPostgres, "get", sinceMs(start)) }()

	row := s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return u, nil
}

// Put implements ProfileStore.Put.
func (s *PostgresStore) Put(ctx context.Context, user model.User) (model.User, error) {
	if strings.TrimSpace(user.ID) == "" {
		return model.User{}, ErrInvalidID
	}
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(backendPostgres, "put", sinceMs(start)) }()

	prefs, err := encodePreferences(user.Profile.Preferences)
	if err != nil {
		return model.User{}, err
	}
	var budgetMin, budgetMax *float64
	if b := user.Profile.Budget; b != nil {
		budgetMin, budgetMax = &b.Min, &b.Max
	}

	stored := user.Clone()
	err = s.pool.QueryRow(ctx,
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			bio = EXCLUDED.bio,
			occupation = EXCLUDED.occupation,
			gender = EXCLUDED.gender,
			neighborhood = EXCLUDED.neighborhood,
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			age = EXCLUDED.age,
			preferences = EXCLUDED.preferences,
			updated_at = EXCLUDED.updated_at
		 RETURNING created_at, updated_at`,
		user.ID, user.Name, user.Bio, user.Occupation, user.Gender,
		user.Profile.Neighborhood, budgetMin, budgetMax, user.Profile.Age, prefs,
		s.opts.now().UTC(),
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return stored, nil
}

// Delete implements ProfileStore.Delete. Saved matches cascade.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(backendPostgres, "delete", sinceMs(start)) }()

	tag, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListComplete implements ProfileStore.ListComplete.
func (s *PostgresStore) ListComplete(ctx context.Context, excludeID string) ([]model.User, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(backendPostgres, "list_complete", sinceMs(start)) }()

	rows, err := s.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles
		 WHERE id <> $1 AND preferences IS NOT NULL AND budget_min IS NOT NULL AND budget_max IS NOT NULL
		 ORDER BY id`, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return out, nil
}

// Count implements ProfileStore.Count. Errors count as zero.
func (s *PostgresStore) Count(ctx context.Context) int {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Save implements MatchStore.Save.
func (s *PostgresStore) Save(ctx context.Context, userID, matchedID string) (bool, error) {
	if userID == matchedID {
		return false, ErrSelfMatch
	}
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(backendPostgres, "save_match", sinceMs(start)) }()

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO saved_matches (user_id, matched_user_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, matched_user_id) DO NOTHING`,
		userID, matchedID, s.opts.now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolate {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to save match: %w", err)
	}
	return tag.RowsAffected() == 0, nil
}

// List implements MatchStore.List.
func (s *PostgresStore) List(ctx context.Context, userID string) ([]string, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(backendPostgres, "list_matches", sinceMs(start)) }()

	rows, err := s.pool.Query(ctx,
		`SELECT matched_user_id FROM saved_matches WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved matches: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list saved matches: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Remove implements MatchStore.Remove.
func (s *PostgresStore) Remove(ctx context.Context, userID, matchedID string) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(backendPostgres, "remove_match", sinceMs(start)) }()

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM saved_matches WHERE user_id = $1 AND matched_user_id = $2`, userID, matchedID)
	if err != nil {
		return fmt.Errorf("failed to remove saved match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) updateMetrics(ctx context.Context) {
	var users, saved int
	err := s.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM profiles), (SELECT COUNT(*) FROM saved_matches)`).Scan(&users, &saved)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "metrics_query")
		return
	}
	metrics.UpdateRepositoryRecords(kindProfiles, users)
	metrics.UpdateRepositoryRecords(kindSavedMatches, saved)
	metrics.UpdateProfilesTotal(users)
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u                    model.User
		budgetMin, budgetMax *float64
		prefs                []byte
	)
	err := row.Scan(&u.ID, &u.Name, &u.Bio, &u.Occupation, &u.Gender,
		&u.Profile.Neighborhood, &budgetMin, &budgetMax, &u.Profile.Age, &prefs,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if budgetMin != nil && budgetMax != nil {
		u.Profile.Budget = &model.Budget{Min: *budgetMin, Max: *budgetMax}
	}
	if u.Profile.Preferences, err = decodePreferences(prefs); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func encodePreferences(p *model.Preferences) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	return b, nil
}

func decodePreferences(raw []byte) (*model.Preferences, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var p model.Preferences
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return &p, nil
}
