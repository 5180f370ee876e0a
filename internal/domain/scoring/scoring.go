// Package scoring computes a deterministic strength score for a race entry.
//
// The score is a weighted sum of three sub-scores, each on a 0..10 scale:
//
//	score = w.Driver*DriverFactor + w.Form*FormFactor + w.Post*PostPositionFactor
//
// Default weights are 0.5, 0.4 and 0.1. They are meant to be tuned over
// time, so they are configurable, but a given Calculator never changes them.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/travrank/internal/domain/model"
)

// Default weighting and sub-score constants.
const (
	defaultDriverWeight = 0.5
	defaultFormWeight   = 0.4
	defaultPostWeight   = 0.1

	driverRatingScale = 2.0
	formGoodFinish    = 3
	formScale         = 10.0

	weightSumTolerance = 0.01
)

// Weights holds the relative importance of each sub-score.
type Weights struct {
	Driver float64 `koanf:"driver" json:"driver"`
	Form   float64 `koanf:"form" json:"form"`
	Post   float64 `koanf:"post" json:"post"`
}

// DefaultWeights returns the standard 0.5 / 0.4 / 0.1 weighting.
func DefaultWeights() Weights {
	return Weights{
		Driver: defaultDriverWeight,
		Form:   defaultFormWeight,
		Post:   defaultPostWeight,
	}
}

// Validate checks that weights are non-negative and sum to 1.0 within a
// small tolerance.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Driver, w.Form, w.Post} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: negative or non-finite weight in %+v", ErrInvalidWeights, w)
		}
	}
	sum := w.Driver + w.Form + w.Post
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.3f", ErrInvalidWeights, sum)
	}
	return nil
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWeights overrides the default weighting. Invalid weights are ignored;
// callers that need to report them run Weights.Validate first.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		if w.Validate() == nil {
			c.weights = w
		}
	}
}

// Scorer computes a score for one entry.
type Scorer interface {
	Score(e model.Entry) float64
}

// Breakdown exposes the sub-scores behind a total.
type Breakdown struct {
	Driver float64 `json:"driver"`
	Form   float64 `json:"form"`
	Post   float64 `json:"post"`
	Total  float64 `json:"total"`
}

// Calculator implements Scorer. It holds no mutable state and is safe for
// concurrent use.
type Calculator struct {
	weights Weights
}

// NewCalculator creates a calculator with the default weights unless
// overridden by options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Weights returns the weighting in effect.
func (c *Calculator) Weights() Weights {
	return c.weights
}

// Score returns the weighted strength score of an entry.
func (c *Calculator) Score(e model.Entry) float64 {
	return c.Breakdown(e).Total
}

// Breakdown returns the sub-scores and their weighted total.
func (c *Calculator) Breakdown(e model.Entry) Breakdown { //nolint:gocritic // hugeParam: entries are values
	b := Breakdown{
		Driver: DriverFactor(e.Horse.Driver),
		Form:   FormFactor(e.Horse),
		Post:   PostPositionFactor(e.StartNumber),
	}
	b.Total = b.Driver*c.weights.Driver +
		b.Form*c.weights.Form +
		b.Post*c.weights.Post
	return b
}

// DriverFactor maps a 1..5 rating onto 2..10.
func DriverFactor(d model.Driver) float64 {
	return float64(d.Rating) * driverRatingScale
}

// FormFactor counts top-3 finishes among the latest five starts. The divisor
// stays at five even when the horse has fewer starts, so thin histories
// never score as well as a full record of the same quality.
func FormFactor(h model.Horse) float64 { //nolint:gocritic // hugeParam: horses are values
	good := 0
	for _, rr := range h.RecentForm() {
		if rr.FinishPosition <= formGoodFinish {
			good++
		}
	}
	return (float64(good) / float64(model.FormWindow)) * formScale
}

// PostPositionFactor favours inside posts: 1 -> 10, 2-4 -> 8, 5-8 -> 5, 9+ -> 3.
func PostPositionFactor(startNumber int) float64 {
	switch {
	case startNumber == 1:
		return 10.0
	case startNumber <= 4:
		return 8.0
	case startNumber <= 8:
		return 5.0
	default:
		return 3.0
	}
}
