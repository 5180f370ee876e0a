package model

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode renders a card as indented canonical JSON.
func Encode(card RaceCard) ([]byte, error) {
	card = card.withEmptySlices()
	out, err := json.MarshalIndent(card, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return out, nil
}

// DecodeCard parses canonical JSON into a RaceCard.
func DecodeCard(data []byte) (RaceCard, error) {
	var card RaceCard
	if err := json.Unmarshal(data, &card); err != nil {
		return RaceCard{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return card, nil
}

// ReadCard decodes a canonical card from r.
func ReadCard(r io.Reader) (RaceCard, error) {
	var card RaceCard
	if err := json.NewDecoder(r).Decode(&card); err != nil {
		return RaceCard{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return card, nil
}

// withEmptySlices replaces nil slices so the canonical form always carries
// arrays instead of nulls.
func (c RaceCard) withEmptySlices() RaceCard {
	races := make([]Race, len(c.Races))
	for i, r := range c.Races {
		starters := make([]Entry, len(r.Starters))
		for j, e := range r.Starters {
			if e.Horse.LastRaces == nil {
				e.Horse.LastRaces = []RaceResult{}
			}
			starters[j] = e
		}
		r.Starters = starters
		races[i] = r
	}
	c.Races = races
	return c
}
