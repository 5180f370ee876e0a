package api

import (
	"context"
	"net/http"

	service "github.com/okian/travrank/internal/app"
	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/internal/domain/scoring"
)

// BreakdownDependencies explains a score in terms of its sub-scores.
type BreakdownDependencies interface {
	Breakdown(e model.Entry) scoring.Breakdown
}

// AnalyzeDependencies defines the interface for full analysis.
type AnalyzeDependencies interface {
	BreakdownDependencies
	Analyze(ctx context.Context, gameType string, raw []byte) (*service.Report, error)
}

// AnalyzeHandler handles analyze requests.
type AnalyzeHandler struct {
	deps         AnalyzeDependencies
	maxBodyBytes int64
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, maxBodyBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleAnalyze handles POST /analyze?game_type=V86 requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
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
	report, err := h.deps.Analyze(r.Context(), game, raw)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newReportView(report, h.deps.Breakdown))
}
