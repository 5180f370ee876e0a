package api

import (
	"context"
	"net/http"

	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/internal/domain/ranking"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	BreakdownDependencies
	Rank(ctx context.Context, card model.RaceCard) ([]ranking.RaceRanking, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps         RankDependencies
	maxBodyBytes int64
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies, maxBodyBytes int64) *RankHandler {
	return &RankHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleRank handles POST /rank requests carrying a canonical race card.
func (h *RankHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	raw, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	card, err := model.DecodeCard(raw)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	races, err := h.deps.Rank(r.Context(), card)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, racesView(races, h.deps.Breakdown))
}
