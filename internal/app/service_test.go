package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/travrank/internal/adapters/reference"
	service "github.com/okian/travrank/internal/app"
	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/internal/domain/normalize"
	"github.com/okian/travrank/internal/domain/scoring"
	"github.com/okian/travrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.InitWithWriter(os.Stderr, logger.FormatText); err != nil {
		panic(err)
	}
}

const rawCard = `{
  "id": "V86_2025-10-29_40_1",
  "races": [
    {
      "number": 1, "distance": 2140, "startMethod": "auto", "track": {"name": "Solvalla"},
      "starts": [
        {"number": 6, "horse": {"name": "Slow Poke"}, "driver": {"name": "Ulf Ohlsson"}},
        {"number": 1, "horse": {"name": "Mighty Turbo"}, "driver": {"name": "örjan kihlström"}}
      ]
    },
    {"number": 2, "distance": 1640, "startMethod": "volte", "track": {"name": "Solvalla"}}
  ]
}`

func testBooks() reference.Books {
	drivers, err := reference.NewDriverBook([]model.Driver{
		{Name: "Örjan Kihlström", Rating: 5},
		{Name: "Ulf Ohlsson", Rating: 2},
	})
	So(err, ShouldBeNil)
	tracks, err := reference.NewTrackBook([]model.Track{{Name: "Solvalla", StretchLengthMeters: 196}})
	So(err, ShouldBeNil)
	horses, err := reference.NewHorseBook([]model.Horse{{
		Name:      "Mighty Turbo",
		LastRaces: []model.RaceResult{{FinishPosition: 1}, {FinishPosition: 1}},
	}})
	So(err, ShouldBeNil)
	return reference.Books{Drivers: drivers, Tracks: tracks, Horses: horses}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should not be started yet", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("Then operations report ErrNotStarted", func() {
			_, err := svc.Analyze(context.Background(), "V86", []byte(rawCard))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given invalid weights", t, func() {
		svc := service.New(
			service.WithLogger(logger.Discard()),
			service.WithBooks(testBooks()),
			service.WithWeights(scoring.Weights{Driver: 0.5, Form: 0.5, Post: 0.3}),
		)

		Convey("Then Start refuses them", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service with preloaded books", t, func() {
		svc := service.New(service.WithBooks(testBooks()), service.WithWorkerCount(2))
		ctx := context.Background()

		Convey("When starting and stopping it", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			So(svc.GetStats()["drivers"], ShouldEqual, 2)

			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given reference paths with a broken drivers file", t, func() {
		path := filepath.Join(t.TempDir(), "drivers.json")
		So(os.WriteFile(path, []byte(`[{"name": "X", "rating": 9}]`), 0o600), ShouldBeNil)
		svc := service.New(service.WithReferencePaths(reference.Paths{Drivers: path}))

		Convey("Then Start fails with ErrReferenceData", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, service.ErrReferenceData), ShouldBeTrue)
			So(errors.Is(err, reference.ErrInvalidRating), ShouldBeTrue)
		})
	})
}

func TestService_Analyze(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithBooks(testBooks()))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When analysing a raw card", func() {
			report, err := svc.Analyze(ctx, "V86", []byte(rawCard))
			So(err, ShouldBeNil)

			Convey("Then the report carries an id and the card", func() {
				So(report.ID.String(), ShouldNotBeEmpty)
				So(report.Card.GameType, ShouldEqual, "V86")
				So(report.Card.Date, ShouldEqual, "2025-10-29")
			})

			Convey("Then venues and histories are joined", func() {
				So(report.Card.Races[0].Track.StretchLengthMeters, ShouldEqual, 196)
				So(report.Races[0].Entries[0].Entry.Horse.LastRaces, ShouldHaveLength, 2)
			})

			Convey("Then the strongest entry ranks first with score 7.6", func() {
				first := report.Races[0].Entries[0]
				So(first.Entry.Horse.Name, ShouldEqual, "Mighty Turbo")
				So(first.Score, ShouldAlmostEqual, 7.6, 1e-9)
				So(report.Races[0].Entries[1].Score, ShouldBeLessThan, first.Score)
			})

			Convey("Then the race without starters is diagnosed", func() {
				So(report.Races[1].Entries, ShouldBeEmpty)
				So(report.Diagnostics, ShouldHaveLength, 1)
				So(report.Diagnostics[0].Code, ShouldEqual, normalize.CodeNoStarters)
			})

			Convey("Then stats count the work", func() {
				stats := svc.GetStats()
				So(stats["cardsAnalyzed"], ShouldEqual, int64(1))
				So(stats["racesRanked"], ShouldEqual, int64(2))
			})
		})

		Convey("When two reports are produced", func() {
			a, err := svc.Analyze(ctx, "V86", []byte(rawCard))
			So(err, ShouldBeNil)
			b, err := svc.Analyze(ctx, "V86", []byte(rawCard))
			So(err, ShouldBeNil)

			Convey("Then ids differ but rankings match", func() {
				So(a.ID, ShouldNotEqual, b.ID)
				So(a.Races, ShouldResemble, b.Races)
			})
		})

		Convey("When the raw card is not JSON", func() {
			_, err := svc.Analyze(ctx, "V86", []byte(`{"races":`))

			Convey("Then the parse error surfaces", func() {
				So(errors.Is(err, normalize.ErrParse), ShouldBeTrue)
				So(svc.GetStats()["parseFailures"], ShouldEqual, int64(1))
			})
		})
	})
}

func TestService_NormalizeAndRank(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithBooks(testBooks()))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When normalizing only", func() {
			res, err := svc.Normalize(ctx, "V86", []byte(rawCard))
			So(err, ShouldBeNil)

			Convey("Then ratings resolve case-insensitively and history stays empty", func() {
				e := res.Card.Races[0].Starters[1]
				So(e.Horse.Driver.Rating, ShouldEqual, 5)
				So(e.Horse.LastRaces, ShouldBeEmpty)
			})

			Convey("Then ranking the canonical card works on its own", func() {
				races, err := svc.Rank(ctx, res.Card)
				So(err, ShouldBeNil)
				So(races, ShouldHaveLength, 2)
				So(races[0].Entries[0].Entry.StartNumber, ShouldEqual, 1)
			})
		})

		Convey("When listing drivers", func() {
			names := make([]string, 0)
			for _, d := range svc.Drivers() {
				names = append(names, d.Name)
			}

			Convey("Then they come sorted", func() {
				So(strings.Join(names, ","), ShouldEqual, "Ulf Ohlsson,Örjan Kihlström")
			})
		})

		Convey("When looking up single drivers", func() {
			Convey("Then known names resolve case-insensitively", func() {
				So(svc.Driver("ULF OHLSSON").Rating, ShouldEqual, 2)
			})

			Convey("Then unknown names get the default rating", func() {
				So(svc.Driver("Nobody"), ShouldResemble, model.Driver{Name: "Nobody", Rating: reference.DefaultFindRating})
			})
		})

		Convey("When asking for a breakdown", func() {
			b := svc.Breakdown(model.Entry{StartNumber: 1, Horse: model.Horse{Driver: model.Driver{Rating: 5}}})

			Convey("Then the sub-scores are reported", func() {
				So(b.Driver, ShouldEqual, 10.0)
				So(b.Post, ShouldEqual, 10.0)
				So(b.Total, ShouldAlmostEqual, 6.0, 1e-9)
			})
		})
	})
}
