// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/travrank/internal/adapters/reference"
	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/internal/domain/normalize"
	"github.com/okian/travrank/internal/domain/ranking"
	"github.com/okian/travrank/internal/domain/scoring"
	"github.com/okian/travrank/pkg/logger"
)

// Report is the outcome of analysing one raw race card.
type Report struct {
	ID          uuid.UUID              `json:"id"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Card        model.RaceCard         `json:"card"`
	Races       []ranking.RaceRanking  `json:"races"`
	Diagnostics []normalize.Diagnostic `json:"diagnostics"`
}

// Service wires normalization, reference data and ranking together.
type Service struct {
	mu sync.RWMutex

	// Core components
	normalizer *normalize.Normalizer
	calculator *scoring.Calculator
	ranker     *ranking.Ranker
	books      reference.Books

	// Configuration
	workerCount int
	weights     scoring.Weights
	paths       reference.Paths
	preloaded   bool

	// State
	started       bool
	cardsAnalyzed atomic.Int64
	racesRanked   atomic.Int64
	parseFailures atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount bounds how many races are ranked at once.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWeights overrides the score weighting. Start rejects weights that
// fail scoring.Weights.Validate.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithReferencePaths sets the files Start loads reference data from.
func WithReferencePaths(p reference.Paths) Option {
	return func(s *Service) {
		s.paths = p
	}
}

// WithBooks supplies reference data directly; Start then skips loading files.
func WithBooks(b reference.Books) Option {
	return func(s *Service) {
		s.books = b
		s.preloaded = true
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		weights:     scoring.DefaultWeights(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads reference data and builds the pipeline. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analysis service...")

	if err := s.weights.Validate(); err != nil {
		s.logger.Error(ctx, "rejected score weights",
			logger.Float64("driver", s.weights.Driver),
			logger.Float64("form", s.weights.Form),
			logger.Float64("post", s.weights.Post),
			logger.Error(err),
		)
		return err
	}

	if !s.preloaded {
		books, err := reference.LoadFiles(s.paths)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReferenceData, err)
		}
		s.books = books
	}

	s.normalizer = normalize.New(normalize.WithLogger(s.logger.Named("normalizer")))
	s.calculator = scoring.NewCalculator(scoring.WithWeights(s.weights))
	s.ranker = ranking.NewRanker(
		ranking.WithScorer(s.calculator),
		ranking.WithWorkerCount(s.workerCount),
	)

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("drivers", s.books.Drivers.Len()),
		logger.Int("tracks", s.books.Tracks.Len()),
		logger.Int("horses", s.books.Horses.Len()),
	)

	return nil
}

// Stop marks the service stopped. In-flight calls finish normally.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "analysis service stopped")
}

// pipeline returns the components under the read lock.
func (s *Service) pipeline() (*normalize.Normalizer, *ranking.Ranker, reference.Books, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, reference.Books{}, ErrNotStarted
	}
	return s.normalizer, s.ranker, s.books, nil
}

// Normalize converts a raw provider document into a canonical card.
// History is not attached; see Analyze.
func (s *Service) Normalize(ctx context.Context, gameType string, raw []byte) (*normalize.Result, error) {
	n, _, books, err := s.pipeline()
	if err != nil {
		return nil, err
	}
	res, err := n.Normalize(ctx, gameType, raw, books.Drivers)
	if err != nil {
		s.parseFailures.Add(1)
		return nil, err
	}
	return res, nil
}

// Analyze normalizes raw, joins venue and history data and ranks every race.
func (s *Service) Analyze(ctx context.Context, gameType string, raw []byte) (*Report, error) {
	res, err := s.Normalize(ctx, gameType, raw)
	if err != nil {
		return nil, err
	}
	card, err := s.Enrich(res.Card)
	if err != nil {
		return nil, err
	}

	races, err := s.Rank(ctx, card)
	if err != nil {
		return nil, err
	}
	s.cardsAnalyzed.Add(1)

	report := &Report{
		ID:          uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Card:        card,
		Races:       races,
		Diagnostics: res.Diagnostics,
	}
	s.logger.Info(ctx, "race card analyzed",
		logger.String("reportID", report.ID.String()),
		logger.String("gameType", card.GameType),
		logger.String("date", card.Date),
		logger.Int("races", len(races)),
	)
	return report, nil
}

// Enrich joins venue geometry and horse histories onto a canonical card.
func (s *Service) Enrich(card model.RaceCard) (model.RaceCard, error) {
	_, _, books, err := s.pipeline()
	if err != nil {
		return model.RaceCard{}, err
	}
	card = books.Tracks.Enrich(card)
	return books.Horses.Enrich(card), nil
}

// Rank orders the starters of every race in a canonical card.
func (s *Service) Rank(ctx context.Context, card model.RaceCard) ([]ranking.RaceRanking, error) {
	_, r, _, err := s.pipeline()
	if err != nil {
		return nil, err
	}
	races, err := r.RankCard(ctx, card)
	if err != nil {
		return nil, err
	}
	s.racesRanked.Add(int64(len(races)))
	return races, nil
}

// Breakdown returns the sub-scores behind an entry's score.
func (s *Service) Breakdown(e model.Entry) scoring.Breakdown { //nolint:gocritic // hugeParam: entries are values
	s.mu.RLock()
	c := s.calculator
	s.mu.RUnlock()
	if c == nil {
		c = scoring.NewCalculator(scoring.WithWeights(s.weights))
	}
	return c.Breakdown(e)
}

// Drivers lists the reference drivers sorted by name.
func (s *Service) Drivers() []model.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.books.Drivers.All()
}

// Driver returns the reference driver matching name. Unknown names keep the
// queried spelling and get reference.DefaultFindRating.
func (s *Service) Driver(name string) model.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.books.Drivers.Find(name)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"weights":       s.weights,
		"drivers":       s.books.Drivers.Len(),
		"tracks":        s.books.Tracks.Len(),
		"horses":        s.books.Horses.Len(),
		"cardsAnalyzed": s.cardsAnalyzed.Load(),
		"racesRanked":   s.racesRanked.Load(),
		"parseFailures": s.parseFailures.Load(),
	}
}
