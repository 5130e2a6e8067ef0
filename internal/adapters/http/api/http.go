// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	repository "github.com/okian/roommatch/internal/adapters/repository"
	"github.com/okian/roommatch/internal/domain/model"
	"github.com/okian/roommatch/internal/domain/ranking"
	"github.com/okian/roommatch/internal/domain/scoring"
	"github.com/okian/roommatch/internal/domain/types"
	"github.com/okian/roommatch/pkg/logger"
)

const maxBodyBytes = 1 << 20

// ProfileDependencies manages stored profiles.
type ProfileDependencies interface {
	UpsertProfile(ctx context.Context, u model.User) (model.User, error)
	GetProfile(ctx context.Context, id string) (model.User, error)
	DeleteProfile(ctx context.Context, id string) error
}

// MatchDependencies ranks candidates and keeps saved matches.
type MatchDependencies interface {
	Matches(ctx context.Context, userID string, limit int) ([]ranking.RankedMatch, error)
	SaveMatch(ctx context.Context, userID, matchedID string) (alreadySaved bool, err error)
	SavedMatches(ctx context.Context, userID string) ([]types.PublicUser, error)
	Unmatch(ctx context.Context, userID, matchedID string) (removed bool, err error)
}

// CompatibilityDependencies scores pairs on demand.
type CompatibilityDependencies interface {
	Compatibility(ctx context.Context, a, b model.Profile) scoring.Result
	CompatibilityBetween(ctx context.Context, userID, otherID string) (scoring.Result, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ProfileDependencies
	MatchDependencies
	CompatibilityDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	profileHandler       *ProfileHandler
	matchHandler         *MatchHandler
	compatibilityHandler *CompatibilityHandler

	corsOrigins     []string
	rateLimit       int
	rateLimitWindow time.Duration
	maxMatches      int
	logger          logger.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMaxMatches caps the limit query parameter of GET /matches/{id}.
func WithMaxMatches(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxMatches = n
		}
	}
}

// WithCORSOrigins sets the allowed origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithRateLimit allows requests per window per client IP. Zero disables it.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		if requests >= 0 && window > 0 {
			s.rateLimit = requests
			s.rateLimitWindow = window
		}
	}
}

// WithLogger sets the logger used for server errors.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		corsOrigins:     []string{"*"},
		rateLimit:       0,
		rateLimitWindow: time.Minute,
		maxMatches:      100,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.profileHandler = NewProfileHandler(deps, s.logger)
	s.matchHandler = NewMatchHandler(deps, s.maxMatches, s.logger)
	s.compatibilityHandler = NewCompatibilityHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("PUT /profiles/{id}", MetricsMiddleware(s.profileHandler.HandlePutProfile, "profiles"))
	mux.HandleFunc("GET /profiles/{id}", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profiles"))
	mux.HandleFunc("DELETE /profiles/{id}", MetricsMiddleware(s.profileHandler.HandleDeleteProfile, "profiles"))

	mux.HandleFunc("GET /matches/{id}", MetricsMiddleware(s.matchHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("GET /matches/{id}/with/{other}", MetricsMiddleware(s.compatibilityHandler.HandleBetween, "matches_with"))
	mux.HandleFunc("POST /matches/{id}/saved", MetricsMiddleware(s.matchHandler.HandleSaveMatch, "saved_matches"))
	mux.HandleFunc("GET /matches/{id}/saved", MetricsMiddleware(s.matchHandler.HandleGetSaved, "saved_matches"))
	mux.HandleFunc("DELETE /matches/{id}/saved/{other}", MetricsMiddleware(s.matchHandler.HandleUnmatch, "saved_matches"))

	mux.HandleFunc("POST /compatibility", MetricsMiddleware(s.compatibilityHandler.HandleCompatibility, "compatibility"))
}

// Handler wraps next with request ids, CORS and per-IP rate limiting.
func (s *Server) Handler(next http.Handler) http.Handler {
	h := RateLimit(s.rateLimit, s.rateLimitWindow)(next)
	h = CORS(s.corsOrigins)(h)
	return RequestID(h)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Completed *bool  `json:"completed,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, ranking.ErrProfileIncomplete):
		completed := false
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:      "incomplete_profile",
			Message:   "please complete your profile before viewing matches",
			Completed: &completed,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrSelfMatch), errors.Is(err, repository.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		log.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// decodeJSON reads a single JSON document into v, rejecting unknown fields.
func decodeJSON(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}
