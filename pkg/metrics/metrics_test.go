package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered on that registry", func() {
				So(manager, ShouldNotBeNil)
				manager.cardsNormalized.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_unit_cards_normalized_total"], ShouldBeTrue)
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording normalization outcomes", func() {
			before := testutil.ToFloat64(globalManager.racesWithoutStarters)
			RecordRaceWithoutStarters()
			RecordCardNormalized()
			RecordParseFailure()
			RecordUnknownDriver()

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.racesWithoutStarters), ShouldEqual, before+1)
			})
		})

		Convey("When recording scored entries", func() {
			before := testutil.ToFloat64(globalManager.entriesScored)
			RecordEntriesScored(12)

			Convey("Then the counter grows by the batch size", func() {
				So(testutil.ToFloat64(globalManager.entriesScored), ShouldEqual, before+12)
			})
		})

		Convey("When updating reference record gauges", func() {
			UpdateReferenceRecords("drivers", 42)

			Convey("Then the labelled gauge holds the value", func() {
				So(testutil.ToFloat64(globalManager.referenceRecords.WithLabelValues("drivers")), ShouldEqual, 42)
			})
		})

		Convey("When recording HTTP and latency metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordHTTPRequest("analyze", "POST", "200")
					RecordHTTPRequestDuration("analyze", "POST", "200", 3.5)
					RecordErrorByEndpoint("analyze", "POST", "client_error")
					RecordRankingLatency(0.4)
				}, ShouldNotPanic)
			})
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestRuntimeCollectors(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		Convey("When registering runtime collectors twice", func() {
			So(RegisterRuntimeCollectors(), ShouldBeNil)
			So(RegisterRuntimeCollectors(), ShouldBeNil)

			Convey("Then Go metrics are gathered", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "go_goroutines" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
