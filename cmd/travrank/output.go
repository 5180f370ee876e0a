package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/internal/domain/normalize"
	"github.com/okian/travrank/internal/domain/ranking"
	"github.com/okian/travrank/internal/domain/scoring"
)

// Hint thresholds in score points.
const (
	bankerMargin = 1.0 // leader ahead of the runner-up by at least this much
	coverSpread  = 0.5 // top three within this much of each other
)

func printDrivers(w io.Writer, drivers []model.Driver) error {
	if len(drivers) == 0 {
		_, err := fmt.Fprintln(w, "no drivers loaded")
		return err
	}
	for _, d := range drivers {
		if _, err := fmt.Fprintf(w, "%-20s rating %d/%d\n", d.Name, d.Rating, model.MaxRating); err != nil {
			return err
		}
	}
	return nil
}

func printDiagnostics(w io.Writer, diags []normalize.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "warning: race %d: %s\n", d.Race, d.Message)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printAnalysis writes the ranking table of every race followed by a hint
// line where one applies. Each row ends with the unweighted sub-scores.
func printAnalysis( //nolint:gocritic // hugeParam: cards are values
	w io.Writer,
	card model.RaceCard,
	races []ranking.RaceRanking,
	breakdown func(model.Entry) scoring.Breakdown,
) error {
	if _, err := fmt.Fprintf(w, "=== Analysis for %s %s ===\n", card.GameType, card.Date); err != nil {
		return err
	}
	for _, race := range races {
		if _, err := fmt.Fprintf(w, "\nRace %d (%s):\n", race.RaceNumber, race.Track); err != nil {
			return err
		}
		for _, se := range race.Entries {
			h := se.Entry.Horse
			b := breakdown(se.Entry)
			if _, err := fmt.Fprintf(w, "Post %2d | %-18s | %-18s (%d/%d) | Score %.2f (driver %.1f, form %.1f, post %.1f)\n",
				se.Entry.StartNumber, h.Name, h.Driver.Name, h.Driver.Rating, model.MaxRating, se.Score,
				b.Driver, b.Form, b.Post); err != nil {
				return err
			}
		}
		if hint := raceHint(race.Entries); hint != "" {
			if _, err := fmt.Fprintf(w, "Hint: %s\n", hint); err != nil {
				return err
			}
		}
	}
	return nil
}

// raceHint suggests a single pick when the leader stands out and a wider
// cover when the top three are close.
func raceHint(entries []model.ScoredEntry) string {
	switch {
	case len(entries) >= 2 && entries[0].Score-entries[1].Score >= bankerMargin:
		return fmt.Sprintf("banker, post %d clear by %.2f", entries[0].Entry.StartNumber, entries[0].Score-entries[1].Score)
	case len(entries) >= 3 && entries[0].Score-entries[2].Score <= coverSpread:
		return fmt.Sprintf("cover, top three within %.2f", entries[0].Score-entries[2].Score)
	default:
		return ""
	}
}
