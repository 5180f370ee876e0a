package scoring_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func results(finishes ...int) []model.RaceResult {
	out := make([]model.RaceResult, len(finishes))
	for i, f := range finishes {
		out[i] = model.RaceResult{Track: "Solvalla", DistanceMeters: 2140, StartPosition: 4, FinishPosition: f, TimeMillis: 75000}
	}
	return out
}

func TestDriverFactor(t *testing.T) {
	Convey("Given every valid driver rating", t, func() {
		Convey("Then the driver factor is exactly rating * 2.0", func() {
			for r := 1; r <= 5; r++ {
				So(scoring.DriverFactor(model.Driver{Name: "d", Rating: r}), ShouldEqual, float64(r)*2.0)
			}
		})

		Convey("And the range is 2.0 to 10.0", func() {
			So(scoring.DriverFactor(model.Driver{Rating: 1}), ShouldEqual, 2.0)
			So(scoring.DriverFactor(model.Driver{Rating: 5}), ShouldEqual, 10.0)
		})
	})
}

func TestFormFactor(t *testing.T) {
	Convey("Given horses with five results and k good finishes", t, func() {
		finishes := [][]int{
			{4, 5, 6, 7, 8},
			{1, 5, 6, 7, 8},
			{1, 2, 6, 7, 8},
			{1, 2, 3, 7, 8},
			{1, 2, 3, 3, 8},
			{1, 2, 3, 1, 2},
		}

		Convey("Then form is (k/5.0)*10.0 for every k", func() {
			for k, f := range finishes {
				h := model.Horse{LastRaces: results(f...)}
				So(scoring.FormFactor(h), ShouldEqual, (float64(k)/5.0)*10.0)
			}
		})
	})

	Convey("Given a horse with a single winning start", t, func() {
		h := model.Horse{LastRaces: results(1)}

		Convey("Then the divisor stays at five", func() {
			So(scoring.FormFactor(h), ShouldEqual, 2.0)
		})
	})

	Convey("Given a horse with more than five results", t, func() {
		h := model.Horse{LastRaces: results(9, 9, 9, 9, 9, 1, 1, 1)}

		Convey("Then only the latest five count", func() {
			So(scoring.FormFactor(h), ShouldEqual, 0.0)
		})
	})

	Convey("Given a horse with an empty history", t, func() {
		h := model.Horse{Name: "Debutant"}

		Convey("Then form is zero and nothing panics", func() {
			So(func() { scoring.FormFactor(h) }, ShouldNotPanic)
			So(scoring.FormFactor(h), ShouldEqual, 0.0)
		})
	})
}

func TestPostPositionFactor(t *testing.T) {
	Convey("Given start numbers on bracket boundaries", t, func() {
		Convey("Then each maps to its bracket", func() {
			So(scoring.PostPositionFactor(1), ShouldEqual, 10.0)
			So(scoring.PostPositionFactor(2), ShouldEqual, 8.0)
			So(scoring.PostPositionFactor(4), ShouldEqual, 8.0)
			So(scoring.PostPositionFactor(5), ShouldEqual, 5.0)
			So(scoring.PostPositionFactor(8), ShouldEqual, 5.0)
			So(scoring.PostPositionFactor(9), ShouldEqual, 3.0)
			So(scoring.PostPositionFactor(15), ShouldEqual, 3.0)
		})
	})
}

func TestCalculator_Score(t *testing.T) {
	Convey("Given a default calculator", t, func() {
		calc := scoring.NewCalculator()

		Convey("When a strong driver in form meets a weak driver out of form", func() {
			good := model.Entry{StartNumber: 4, Horse: model.Horse{
				Name: "Good Horse", Trainer: "Trainer X",
				Driver:    model.Driver{Name: "Top Driver", Rating: 5},
				LastRaces: results(1, 2),
			}}
			bad := model.Entry{StartNumber: 11, Horse: model.Horse{
				Name: "Bad Horse", Trainer: "Trainer Y",
				Driver:    model.Driver{Name: "Random", Rating: 2},
				LastRaces: results(7, 8),
			}}

			Convey("Then the strong entry scores strictly higher", func() {
				So(calc.Score(good), ShouldBeGreaterThan, calc.Score(bad))
			})
		})

		Convey("When a rating-5 driver starts from post 1 with two wins", func() {
			e := model.Entry{StartNumber: 1, Horse: model.Horse{
				Driver:    model.Driver{Name: "Top", Rating: 5},
				LastRaces: results(1, 1),
			}}

			Convey("Then the score is 5.0 + 1.6 + 1.0", func() {
				So(calc.Score(e), ShouldAlmostEqual, 7.6, 1e-9)
			})
		})

		Convey("When the horse has no history", func() {
			e := model.Entry{StartNumber: 9, Horse: model.Horse{Driver: model.Driver{Rating: 1}}}

			Convey("Then only driver and post contribute", func() {
				So(calc.Score(e), ShouldAlmostEqual, 0.5*2.0+0.1*3.0, 1e-12)
			})
		})

		Convey("When asking for a breakdown", func() {
			e := model.Entry{StartNumber: 3, Horse: model.Horse{
				Driver:    model.Driver{Rating: 4},
				LastRaces: results(1, 4, 2, 9, 3),
			}}
			b := calc.Breakdown(e)

			Convey("Then the total matches Score bit for bit", func() {
				So(b.Driver, ShouldEqual, 8.0)
				So(b.Form, ShouldEqual, 6.0)
				So(b.Post, ShouldEqual, 8.0)
				So(math.Float64bits(b.Total), ShouldEqual, math.Float64bits(calc.Score(e)))
			})
		})

		Convey("When scoring the same entry repeatedly and concurrently", func() {
			e := model.Entry{StartNumber: 2, Horse: model.Horse{Driver: model.Driver{Rating: 3}, LastRaces: results(2, 5)}}
			want := calc.Score(e)

			Convey("Then results are identical", func() {
				var wg sync.WaitGroup
				got := make([]float64, 16)
				for i := range got {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						got[i] = calc.Score(e)
					}(i)
				}
				wg.Wait()
				for _, g := range got {
					So(g, ShouldEqual, want)
				}
			})
		})
	})
}

func TestWeights(t *testing.T) {
	Convey("Given the default weights", t, func() {
		w := scoring.DefaultWeights()

		Convey("Then they are 0.5 / 0.4 / 0.1 and valid", func() {
			So(w.Driver, ShouldEqual, 0.5)
			So(w.Form, ShouldEqual, 0.4)
			So(w.Post, ShouldEqual, 0.1)
			So(w.Validate(), ShouldBeNil)
		})
	})

	Convey("Given weights that do not sum to one", t, func() {
		w := scoring.Weights{Driver: 0.9, Form: 0.9, Post: 0.1}

		Convey("Then validation fails with ErrInvalidWeights", func() {
			So(errors.Is(w.Validate(), scoring.ErrInvalidWeights), ShouldBeTrue)
		})

		Convey("And WithWeights keeps the defaults", func() {
			calc := scoring.NewCalculator(scoring.WithWeights(w))
			So(calc.Weights(), ShouldResemble, scoring.DefaultWeights())
		})
	})

	Convey("Given a negative weight", t, func() {
		w := scoring.Weights{Driver: 1.2, Form: -0.3, Post: 0.1}

		Convey("Then validation fails", func() {
			So(errors.Is(w.Validate(), scoring.ErrInvalidWeights), ShouldBeTrue)
		})
	})

	Convey("Given custom valid weights", t, func() {
		calc := scoring.NewCalculator(scoring.WithWeights(scoring.Weights{Driver: 1, Form: 0, Post: 0}))
		e := model.Entry{StartNumber: 1, Horse: model.Horse{Driver: model.Driver{Rating: 3}, LastRaces: results(1)}}

		Convey("Then only the driver factor counts", func() {
			So(calc.Score(e), ShouldEqual, 6.0)
		})
	})
}
