package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/roommatch/internal/domain/ranking"
	"github.com/okian/roommatch/internal/domain/types"
	"github.com/okian/roommatch/pkg/logger"
)

type matchesResponse struct {
	Matches   []ranking.RankedMatch `json:"matches"`
	Completed bool                  `json:"completed"`
}

type savedMatchesResponse struct {
	Matches []types.PublicUser `json:"matches"`
}

type saveMatchResponse struct {
	Success      bool `json:"success"`
	AlreadySaved bool `json:"already_saved"`
}

type unmatchResponse struct {
	Success bool `json:"success"`
	Removed bool `json:"removed"`
}

// MatchHandler handles ranked and saved match requests.
type MatchHandler struct {
	deps     MatchDependencies
	maxLimit int
	logger   logger.Logger
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies, maxLimit int, l logger.Logger) *MatchHandler {
	return &MatchHandler{deps: deps, maxLimit: maxLimit, logger: l}
}

// HandleGetMatches handles GET /matches/{id}?limit=N requests. Without a
// limit every complete candidate is returned.
func (h *MatchHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matches"
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrLimitExceeded))
			return
		}
		limit = n
	}

	matches, err := h.deps.Matches(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, matchesResponse{Matches: matches, Completed: true})
}

// HandleSaveMatch handles POST /matches/{id}/saved requests.
func (h *MatchHandler) HandleSaveMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_match"
	var req saveMatchRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	req.MatchedUserID = strings.TrimSpace(req.MatchedUserID)
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", WrapKind(op, ErrBadRequest, err))
		return
	}

	already, err := h.deps.SaveMatch(r.Context(), r.PathValue("id"), req.MatchedUserID)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	status := http.StatusCreated
	if already {
		status = http.StatusOK
	}
	writeJSON(w, status, saveMatchResponse{Success: true, AlreadySaved: already})
}

// HandleGetSaved handles GET /matches/{id}/saved requests.
func (h *MatchHandler) HandleGetSaved(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_saved_matches"
	saved, err := h.deps.SavedMatches(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, savedMatchesResponse{Matches: saved})
}

// HandleUnmatch handles DELETE /matches/{id}/saved/{other} requests.
func (h *MatchHandler) HandleUnmatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.unmatch"
	removed, err := h.deps.Unmatch(r.Context(), r.PathValue("id"), r.PathValue("other"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, unmatchResponse{Success: true, Removed: removed})
}
