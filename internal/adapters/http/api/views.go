package api

import (
	"math"
	"time"

	service "github.com/okian/travrank/internal/app"
	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/internal/domain/normalize"
	"github.com/okian/travrank/internal/domain/ranking"
	"github.com/okian/travrank/internal/domain/scoring"
)

// entryView is one ranked starter as shown to clients. Scores are rounded
// to two decimals here only; the domain keeps full precision.
type entryView struct {
	Rank        int           `json:"rank"`
	StartNumber int           `json:"startNumber"`
	Horse       string        `json:"horse"`
	Driver      string        `json:"driver"`
	Rating      int           `json:"rating"`
	Score       float64       `json:"score"`
	Breakdown   breakdownView `json:"breakdown"`
}

// breakdownView holds the unweighted sub-scores, each on a 0..10 scale.
type breakdownView struct {
	Driver float64 `json:"driver"`
	Form   float64 `json:"form"`
	Post   float64 `json:"post"`
}

type raceView struct {
	RaceNumber int         `json:"raceNumber"`
	Track      string      `json:"track"`
	Entries    []entryView `json:"entries"`
}

type reportView struct {
	ID          string                 `json:"id"`
	GeneratedAt time.Time              `json:"generatedAt"`
	GameType    string                 `json:"gameType"`
	Date        string                 `json:"date"`
	Races       []raceView             `json:"races"`
	Diagnostics []normalize.Diagnostic `json:"diagnostics"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func racesView(races []ranking.RaceRanking, breakdown func(model.Entry) scoring.Breakdown) []raceView {
	out := make([]raceView, len(races))
	for i, race := range races {
		entries := make([]entryView, len(race.Entries))
		for j, se := range race.Entries {
			b := breakdown(se.Entry)
			entries[j] = entryView{
				Rank:        j + 1,
				StartNumber: se.Entry.StartNumber,
				Horse:       se.Entry.Horse.Name,
				Driver:      se.Entry.Horse.Driver.Name,
				Rating:      se.Entry.Horse.Driver.Rating,
				Score:       round2(se.Score),
				Breakdown: breakdownView{
					Driver: round2(b.Driver),
					Form:   round2(b.Form),
					Post:   round2(b.Post),
				},
			}
		}
		out[i] = raceView{RaceNumber: race.RaceNumber, Track: race.Track, Entries: entries}
	}
	return out
}

func newReportView(r *service.Report, breakdown func(model.Entry) scoring.Breakdown) reportView {
	return reportView{
		ID:          r.ID.String(),
		GeneratedAt: r.GeneratedAt,
		GameType:    r.Card.GameType,
		Date:        r.Card.Date,
		Races:       racesView(r.Races, breakdown),
		Diagnostics: r.Diagnostics,
	}
}
