package logger

import (
	"bytes"
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initializing on stdout", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
			})
		})

		Convey("When initializing with a nil writer", func() {
			Convey("Then it fails", func() {
				So(InitWithWriter(nil, FormatText), ShouldNotBeNil)
			})
		})

		Convey("When initializing with an unknown format", func() {
			var buf bytes.Buffer

			Convey("Then it fails", func() {
				So(InitWithWriter(&buf, Format("xml")), ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger on a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf, FormatJSON), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("normalizer").Warn(ctx, "no starters", Int("race", 3), String("gameType", "V86"))

			Convey("Then the record carries message, group and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"msg":"no starters"`)
				So(out, ShouldContainSubstring, `"normalizer"`)
				So(out, ShouldContainSubstring, `"race":3`)
				So(out, ShouldContainSubstring, `"source"`)
			})
		})

		Convey("When the level filters a record", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Debug(ctx, "hidden too")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Reset(func() { _ = SetLevelString("info") })
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		Convey("Then known names are accepted", func() {
			for _, l := range []string{"debug", "INFO", "", "warn", "warning", "error"} {
				So(SetLevelString(l), ShouldBeNil)
			}
		})

		Convey("And unknown names are rejected", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})

		Reset(func() { _ = SetLevelString("info") })
	})
}

func TestDiscard(t *testing.T) {
	Convey("Given the discard logger", t, func() {
		l := Discard()

		Convey("Then logging never panics", func() {
			So(func() {
				l.Named("x").Error(context.Background(), "dropped", Error(nil), Bool("ok", true))
			}, ShouldNotPanic)
		})
	})
}
