package api

import (
	"context"
	"net/http"

	"github.com/okian/travrank/internal/domain/normalize"
)

// NormalizeDependencies defines the interface for normalization.
type NormalizeDependencies interface {
	Normalize(ctx context.Context, gameType string, raw []byte) (*normalize.Result, error)
}

// NormalizeHandler handles normalize requests.
type NormalizeHandler struct {
	deps         NormalizeDependencies
	maxBodyBytes int64
}

// NewNormalizeHandler creates a new normalize handler.
func NewNormalizeHandler(deps NormalizeDependencies, maxBodyBytes int64) *NormalizeHandler {
	return &NormalizeHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleNormalize handles POST /normalize?game_type=V86 requests. The body is
// the provider's raw export; the response is the canonical card plus
// diagnostics.
func (h *NormalizeHandler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	const op = "api.normalize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	game, err := gameType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	raw, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	res, err := h.deps.Normalize(r.Context(), game, raw)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
