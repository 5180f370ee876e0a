// Package ranking orders the starters of a race by strength score.
//
// Ordering: score DESC, then start number ASC, then horse name ASC. The
// secondary keys make the order total, so two runs over the same race
// always produce the same sequence even when scores tie.
package ranking

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/internal/domain/scoring"
	"github.com/okian/travrank/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// RaceRanking is the ordered result for one race of a card.
type RaceRanking struct {
	RaceNumber int                 `json:"raceNumber"`
	Track      string              `json:"track"`
	Entries    []model.ScoredEntry `json:"entries"`
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithScorer replaces the default calculator.
func WithScorer(s scoring.Scorer) Option {
	return func(r *Ranker) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithWorkerCount bounds how many races RankCard ranks at once.
func WithWorkerCount(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.workers = n
		}
	}
}

// Ranker ranks races. It keeps no state between calls.
type Ranker struct {
	scorer  scoring.Scorer
	workers int
}

// NewRanker creates a ranker backed by the default score calculator.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		scorer:  scoring.NewCalculator(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every starter once and returns them best first.
func (r *Ranker) Rank(race model.Race) []model.ScoredEntry { //nolint:gocritic // hugeParam: races are values
	scored := make([]model.ScoredEntry, len(race.Starters))
	for i, e := range race.Starters {
		scored[i] = model.ScoredEntry{Entry: e, Score: r.scorer.Score(e)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return less(scored[i], scored[j])
	})
	return scored
}

// RankCard ranks every race of a card concurrently. Results keep card order.
func (r *Ranker) RankCard(ctx context.Context, card model.RaceCard) ([]RaceRanking, error) {
	start := time.Now()
	out := make([]RaceRanking, len(card.Races))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range card.Races {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("rank race %d: %w", card.Races[i].RaceNumber, err)
			}
			race := card.Races[i]
			out[i] = RaceRanking{
				RaceNumber: race.RaceNumber,
				Track:      race.Track.Name,
				Entries:    r.Rank(race),
			}
			metrics.RecordEntriesScored(len(race.Starters))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.RecordRankingLatency(float64(time.Since(start).Microseconds()) / 1000)
	return out, nil
}

// less reports whether a ranks ahead of b.
func less(a, b model.ScoredEntry) bool { //nolint:gocritic // hugeParam: comparator over values
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Entry.StartNumber != b.Entry.StartNumber {
		return a.Entry.StartNumber < b.Entry.StartNumber
	}
	return a.Entry.Horse.Name < b.Entry.Horse.Name
}
