// Package model contains the canonical race-card schema shared by the
// normalizer, the scorer and the ranker.
//
// All types are plain values. They are built once (by the normalizer, a
// reference-data join or a test) and never mutated afterwards; enrichment
// steps return modified copies.
package model

// Sentinel values used when upstream data does not carry a field.
const (
	UnknownDate   = "UNKNOWN"
	UnknownName   = "?"
	UnknownDriver = "Okänd kusk"
)

// Rating bounds and the form window used by scoring.
const (
	MinRating  = 1
	MaxRating  = 5
	FormWindow = 5
)

// Driver is the person driving the horse in a given race.
type Driver struct {
	Name   string `json:"name"`   // display name, also the reference lookup key
	Rating int    `json:"rating"` // 1 (weakest) to 5 (strongest)
}

// Valid reports whether the rating lies within [MinRating, MaxRating].
func (d Driver) Valid() bool {
	return d.Rating >= MinRating && d.Rating <= MaxRating
}

// RaceResult is one historical start.
type RaceResult struct {
	Track          string `json:"track"`
	DistanceMeters int    `json:"distanceMeters"`
	StartPosition  int    `json:"startPosition"`
	FinishPosition int    `json:"finishPosition"` // 1 = winner
	TimeMillis     int64  `json:"timeInMs"`
	Gallop         bool   `json:"gallop"` // broke gait, did not finish cleanly
}

// Horse is a participant together with its own driver snapshot.
type Horse struct {
	Name      string       `json:"name"`
	Trainer   string       `json:"trainer"`
	Driver    Driver       `json:"driver"`
	LastRaces []RaceResult `json:"lastRaces"` // most recent first
}

// RecentForm returns at most FormWindow of the latest results.
func (h Horse) RecentForm() []RaceResult {
	if len(h.LastRaces) > FormWindow {
		return h.LastRaces[:FormWindow]
	}
	return h.LastRaces
}

// Entry is a horse's registration in one race.
type Entry struct {
	StartNumber int   `json:"startNumber"` // post position
	Horse       Horse `json:"horse"`
}

// Track describes the venue. Zero values mean unknown.
type Track struct {
	Name                string `json:"name"`
	StretchLengthMeters int    `json:"stretchLengthMeters"`
	TightTrack          bool   `json:"isTightTrack"`
}

// Race is one leg of a race card.
type Race struct {
	RaceNumber     int     `json:"raceNumber"`
	Track          Track   `json:"track"`
	DistanceMeters int     `json:"distanceMeters"`
	AutoStart      bool    `json:"autoStart"` // false means volte (standing) start
	Starters       []Entry `json:"starters"`  // upstream declaration order
}

// RaceCard is a full wagering pool, e.g. "V86 2025-10-29".
type RaceCard struct {
	GameType string `json:"gameType"`
	Date     string `json:"date"`
	Races    []Race `json:"races"`
}

// ScoredEntry pairs an entry with its computed strength score.
type ScoredEntry struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}
