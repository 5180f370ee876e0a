package reference

import (
	"fmt"
	"io"

	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/pkg/metrics"
)

// TrackBook holds venue geometry keyed by folded track name.
type TrackBook struct {
	byKey map[string]model.Track
}

// NewTrackBook indexes tracks by name.
func NewTrackBook(tracks []model.Track) (*TrackBook, error) {
	b := &TrackBook{byKey: make(map[string]model.Track, len(tracks))}
	for i, t := range tracks {
		key := FoldKey(t.Name)
		if key == "" {
			return nil, fmt.Errorf("track #%d: %w", i, ErrEmptyName)
		}
		b.byKey[key] = t
	}
	metrics.UpdateReferenceRecords(KindTracks, len(b.byKey))
	return b, nil
}

// LoadTracks reads a JSON array of {name, stretchLengthMeters, isTightTrack}.
func LoadTracks(r io.Reader) (*TrackBook, error) {
	var tracks []model.Track
	if err := json.NewDecoder(r).Decode(&tracks); err != nil {
		return nil, fmt.Errorf("%w: tracks: %w", ErrDecode, err)
	}
	return NewTrackBook(tracks)
}

// Lookup returns the track with the given name.
func (b *TrackBook) Lookup(name string) (model.Track, bool) {
	if b == nil {
		return model.Track{}, false
	}
	t, ok := b.byKey[FoldKey(name)]
	return t, ok
}

// Len returns the number of tracks.
func (b *TrackBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.byKey)
}

// Enrich returns card with a fresh races slice where every known venue has
// its stretch length and tightness filled in. The race keeps its own spelling
// of the name. Starter lists are shared with the input.
func (b *TrackBook) Enrich(card model.RaceCard) model.RaceCard {
	races := make([]model.Race, len(card.Races))
	for i, race := range card.Races {
		if t, ok := b.Lookup(race.Track.Name); ok {
			race.Track.StretchLengthMeters = t.StretchLengthMeters
			race.Track.TightTrack = t.TightTrack
		}
		races[i] = race
	}
	card.Races = races
	return card
}
