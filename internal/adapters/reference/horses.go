package reference

import (
	"fmt"
	"io"

	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/pkg/metrics"
)

// HorseBook holds race histories keyed by folded horse name.
type HorseBook struct {
	byKey map[string][]model.RaceResult
}

// NewHorseBook indexes horse histories. Only name and lastRaces are kept;
// the card's own trainer and driver always win.
func NewHorseBook(horses []model.Horse) (*HorseBook, error) {
	b := &HorseBook{byKey: make(map[string][]model.RaceResult, len(horses))}
	for i, h := range horses {
		key := FoldKey(h.Name)
		if key == "" {
			return nil, fmt.Errorf("horse #%d: %w", i, ErrEmptyName)
		}
		history := make([]model.RaceResult, len(h.LastRaces))
		copy(history, h.LastRaces)
		b.byKey[key] = history
	}
	metrics.UpdateReferenceRecords(KindHorses, len(b.byKey))
	return b, nil
}

// LoadHorses reads a JSON array of horses with their lastRaces.
func LoadHorses(r io.Reader) (*HorseBook, error) {
	var horses []model.Horse
	if err := json.NewDecoder(r).Decode(&horses); err != nil {
		return nil, fmt.Errorf("%w: horses: %w", ErrDecode, err)
	}
	return NewHorseBook(horses)
}

// History returns the recorded results for a horse, most recent first.
func (b *HorseBook) History(name string) ([]model.RaceResult, bool) {
	if b == nil {
		return nil, false
	}
	h, ok := b.byKey[FoldKey(name)]
	return h, ok
}

// Len returns the number of horses.
func (b *HorseBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.byKey)
}

// Enrich returns a copy of card where every known horse without results
// carries its recorded history. Entries that already have results, and
// entries of unknown horses, are left as they are.
func (b *HorseBook) Enrich(card model.RaceCard) model.RaceCard {
	races := make([]model.Race, len(card.Races))
	for i, race := range card.Races {
		starters := make([]model.Entry, len(race.Starters))
		for j, e := range race.Starters {
			if len(e.Horse.LastRaces) > 0 {
				starters[j] = e
				continue
			}
			if history, ok := b.History(e.Horse.Name); ok {
				e.Horse.LastRaces = append([]model.RaceResult(nil), history...)
			}
			starters[j] = e
		}
		race.Starters = starters
		races[i] = race
	}
	card.Races = races
	return card
}
