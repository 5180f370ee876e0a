// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	service "github.com/okian/travrank/internal/app"
	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/internal/domain/normalize"
	"github.com/okian/travrank/internal/domain/ranking"
	"github.com/okian/travrank/internal/domain/scoring"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultMaxBodyBytes = 4 << 20
	gameTypeParam       = "game_type"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Normalize(ctx context.Context, gameType string, raw []byte) (*normalize.Result, error)
	Analyze(ctx context.Context, gameType string, raw []byte) (*service.Report, error)
	Rank(ctx context.Context, card model.RaceCard) ([]ranking.RaceRanking, error)
	Drivers() []model.Driver
	Driver(name string) model.Driver
	Breakdown(e model.Entry) scoring.Breakdown
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxBodyBytes int64

	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	normalizeHandler *NormalizeHandler
	analyzeHandler   *AnalyzeHandler
	rankHandler      *RankHandler
	driversHandler   *DriversHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.normalizeHandler = NewNormalizeHandler(deps, s.maxBodyBytes)
	s.analyzeHandler = NewAnalyzeHandler(deps, s.maxBodyBytes)
	s.rankHandler = NewRankHandler(deps, s.maxBodyBytes)
	s.driversHandler = NewDriversHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/normalize", MetricsMiddleware(s.normalizeHandler.HandleNormalize, "normalize"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/rank", MetricsMiddleware(s.rankHandler.HandleRank, "rank"))
	mux.HandleFunc("/drivers", MetricsMiddleware(s.driversHandler.HandleDrivers, "drivers"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, err
	}
	return body, nil
}

func gameType(r *http.Request) (string, error) {
	g := strings.TrimSpace(r.URL.Query().Get(gameTypeParam))
	if g == "" {
		return "", ErrMissingGameType
	}
	return g, nil
}

// writeServiceError maps pipeline errors onto status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, normalize.ErrParse), errors.Is(err, model.ErrDecode):
		writeError(w, http.StatusBadRequest, "parse_error", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, ErrBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", NewKind(op, ErrBodyTooLarge))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", WrapKind(op, ErrNotReady, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
