package api

import (
	"net/http"

	"github.com/okian/roommatch/pkg/logger"
)

// CompatibilityHandler handles pairwise scoring requests.
type CompatibilityHandler struct {
	deps   CompatibilityDependencies
	logger logger.Logger
}

// NewCompatibilityHandler creates a new compatibility handler.
func NewCompatibilityHandler(deps CompatibilityDependencies, l logger.Logger) *CompatibilityHandler {
	return &CompatibilityHandler{deps: deps, logger: l}
}

// HandleCompatibility handles POST /compatibility requests.
func (h *CompatibilityHandler) HandleCompatibility(w http.ResponseWriter, r *http.Request) {
	const op = "api.compatibility"
	var req compatibilityRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Compatibility(r.Context(), req.A.toModel(), req.B.toModel()))
}

// HandleBetween handles GET /matches/{id}/with/{other} requests.
func (h *CompatibilityHandler) HandleBetween(w http.ResponseWriter, r *http.Request) {
	const op = "api.compatibility_between"
	res, err := h.deps.CompatibilityBetween(r.Context(), r.PathValue("id"), r.PathValue("other"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
