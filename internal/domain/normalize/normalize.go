// Package normalize turns a provider's raw race-card export into the
// canonical model.RaceCard.
//
// Upstream documents are loosely structured: fields go missing, entry lists
// travel under different names and driver names come split or whole. The
// normalizer never fails on any of that. Missing values default, and
// anything worth a second look is reported as a Diagnostic on the Result.
// The only error is a document that is not JSON at all.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/pkg/logger"
	"github.com/okian/travrank/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	idSeparator = "_"
	autoMarker  = "auto"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DriverLookup resolves a driver's reference record by display name.
type DriverLookup interface {
	Lookup(name string) (model.Driver, bool)
}

// MapLookup is a DriverLookup over a plain map keyed by exact name.
type MapLookup map[string]model.Driver

// Lookup implements DriverLookup.
func (m MapLookup) Lookup(name string) (model.Driver, bool) {
	d, ok := m[name]
	return d, ok
}

// Code classifies a diagnostic.
type Code string

// Diagnostic codes.
const (
	CodeNoStarters    Code = "no_starters"
	CodeUnknownDriver Code = "unknown_driver"
)

// Diagnostic is a non-fatal observation made while normalizing.
type Diagnostic struct {
	Race        int    `json:"race"`
	StartNumber int    `json:"startNumber,omitempty"`
	Code        Code   `json:"code"`
	Message     string `json:"message"`
}

// Result is the output of one normalization.
type Result struct {
	Card        model.RaceCard `json:"card"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
}

// Count returns how many diagnostics carry the given code.
func (r *Result) Count(code Code) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

// Normalizer converts raw documents. It holds no per-call state and is safe
// for concurrent use.
type Normalizer struct {
	log logger.Logger
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{log: logger.Discard()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize parses raw and builds the canonical card. gameType is carried
// over unchanged. drivers may be nil, in which case every driver gets the
// minimum rating.
func (n *Normalizer) Normalize(ctx context.Context, gameType string, raw []byte, drivers DriverLookup) (*Result, error) {
	if !wellFormed(raw) {
		metrics.RecordParseFailure()
		return nil, parseError(raw)
	}
	root := json.Get(raw)

	b := &builder{
		ctx:     ctx,
		log:     n.log,
		drivers: drivers,
	}
	card := model.RaceCard{
		GameType: gameType,
		Date:     extractDate(root),
	}
	for _, node := range elements(root.Get(fieldRaces)) {
		card.Races = append(card.Races, b.race(node))
	}
	if card.Races == nil {
		card.Races = []model.Race{}
	}

	metrics.RecordCardNormalized()
	n.log.Info(ctx, "race card normalized",
		logger.String("gameType", gameType),
		logger.String("date", card.Date),
		logger.Int("races", len(card.Races)),
		logger.Int("diagnostics", len(b.diags)),
	)
	diags := b.diags
	if diags == nil {
		diags = []Diagnostic{}
	}
	return &Result{Card: card, Diagnostics: diags}, nil
}

// wellFormed reports whether raw holds exactly one JSON value, optionally
// surrounded by whitespace.
func wellFormed(raw []byte) bool {
	iter := json.BorrowIterator(raw)
	defer json.ReturnIterator(iter)

	iter.Skip()
	if iter.Error != nil {
		return false
	}
	// At the end of input WhatIsNext sets io.EOF; a stray '}' or ']' is
	// also InvalidValue but leaves Error unset.
	return iter.WhatIsNext() == jsoniter.InvalidValue && errors.Is(iter.Error, io.EOF)
}

func parseError(raw []byte) error {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	// Valid rejected it but the decoder did not say why.
	return ErrParse
}

// extractDate finds the card date: a YYYY-MM-DD token in the game id,
// otherwise the first race's date, otherwise UnknownDate.
func extractDate(root jsoniter.Any) string {
	id := text(root.Get(fieldID), "")
	for _, part := range strings.Split(id, idSeparator) {
		if datePattern.MatchString(part) {
			return part
		}
	}
	races := elements(root.Get(fieldRaces))
	if len(races) > 0 {
		if d := text(races[0].Get(fieldDate), ""); d != "" {
			return d
		}
	}
	return model.UnknownDate
}

// builder carries the per-call state of one Normalize run.
type builder struct {
	ctx     context.Context
	log     logger.Logger
	drivers DriverLookup
	diags   []Diagnostic
}

func (b *builder) race(node jsoniter.Any) model.Race {
	number := integer(node.Get(fieldNumber))
	method := text(node.Get(fieldStartMethod), "")
	race := model.Race{
		RaceNumber:     number,
		Track:          model.Track{Name: text(node.Get(fieldTrack, fieldName), model.UnknownName)},
		DistanceMeters: integer(node.Get(fieldDistance)),
		AutoStart:      strings.Contains(strings.ToLower(method), autoMarker),
		Starters:       []model.Entry{},
	}

	list, alias, ok := findStarters(node)
	if !ok {
		b.noStarters(number)
		return race
	}
	b.log.Debug(b.ctx, "entry list resolved",
		logger.Int("race", number),
		logger.String("alias", alias),
	)
	for _, start := range elements(list) {
		race.Starters = append(race.Starters, b.entry(number, start))
	}
	return race
}

func (b *builder) entry(raceNumber int, node jsoniter.Any) model.Entry {
	horse := node.Get(fieldHorse)
	startNumber := integer(node.Get(fieldNumber))
	return model.Entry{
		StartNumber: startNumber,
		Horse: model.Horse{
			Name:      text(horse.Get(fieldName), model.UnknownName),
			Trainer:   text(horse.Get(fieldTrainer), model.UnknownName),
			Driver:    b.driver(raceNumber, startNumber, node.Get(fieldDriver)),
			LastRaces: []model.RaceResult{},
		},
	}
}

func (b *builder) driver(raceNumber, startNumber int, node jsoniter.Any) model.Driver {
	name := driverName(node)
	if b.drivers != nil {
		if ref, ok := b.drivers.Lookup(name); ok {
			return model.Driver{Name: name, Rating: ref.Rating}
		}
	}
	metrics.RecordUnknownDriver()
	b.log.Debug(b.ctx, "driver not in reference data",
		logger.Int("race", raceNumber),
		logger.Int("startNumber", startNumber),
		logger.String("driver", name),
	)
	b.diags = append(b.diags, Diagnostic{
		Race:        raceNumber,
		StartNumber: startNumber,
		Code:        CodeUnknownDriver,
		Message:     fmt.Sprintf("driver %q not found, rating %d assumed", name, model.MinRating),
	})
	return model.Driver{Name: name, Rating: model.MinRating}
}

// driverName prefers a non-blank full name, then the joined first and last
// names, then UnknownDriver.
func driverName(node jsoniter.Any) string {
	if node.ValueType() == jsoniter.InvalidValue {
		return model.UnknownDriver
	}
	if full := text(node.Get(fieldName), ""); strings.TrimSpace(full) != "" {
		return full
	}
	first := text(node.Get(fieldFirstName), "")
	last := text(node.Get(fieldLastName), "")
	if joined := strings.TrimSpace(first + " " + last); joined != "" {
		return joined
	}
	return model.UnknownDriver
}

func (b *builder) noStarters(raceNumber int) {
	metrics.RecordRaceWithoutStarters()
	b.log.Warn(b.ctx, "no starters found for race",
		logger.Int("race", raceNumber),
		logger.Any("aliases", starterAliases[:]),
	)
	b.diags = append(b.diags, Diagnostic{
		Race:    raceNumber,
		Code:    CodeNoStarters,
		Message: fmt.Sprintf("race %d has no entry list", raceNumber),
	})
}
