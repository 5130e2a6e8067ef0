package api

import (
	"net/http"
	"strings"

	"github.com/okian/roommatch/pkg/logger"
)

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	deps   ProfileDependencies
	logger logger.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies, l logger.Logger) *ProfileHandler {
	return &ProfileHandler{deps: deps, logger: l}
}

// HandlePutProfile handles PUT /profiles/{id} requests.
func (h *ProfileHandler) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_profile"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var req profileRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", WrapKind(op, ErrBadRequest, err))
		return
	}

	stored, err := h.deps.UpsertProfile(r.Context(), req.toModel(id))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleGetProfile handles GET /profiles/{id} requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	u, err := h.deps.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleDeleteProfile handles DELETE /profiles/{id} requests.
func (h *ProfileHandler) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_profile"
	if err := h.deps.DeleteProfile(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
