package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given a logger writing JSON to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf, "json"), ShouldBeNil)
		So(SetLevelString("info"), ShouldBeNil)
		ctx := context.Background()

		Convey("Info records carry fields, the logger name and the caller", func() {
			Named("ingest").Info(ctx, "scan stored", String("scanId", "abc"), Int("count", 2))
			out := buf.String()
			So(out, ShouldContainSubstring, `"msg":"scan stored"`)
			So(out, ShouldContainSubstring, `"scanId":"abc"`)
			So(out, ShouldContainSubstring, `"logger":"ingest"`)
			So(out, ShouldContainSubstring, "logger_test.go")
		})

		Convey("Debug is suppressed at info level", func() {
			Get().Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)
		})

		Convey("Debug is emitted once the level is lowered", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(ctx, "visible")
			So(buf.String(), ShouldContainSubstring, "visible")
		})

		Convey("Error fields render the error text", func() {
			Get().Error(ctx, "store failed", Error(errors.New("boom")))
			So(buf.String(), ShouldContainSubstring, "boom")
		})
	})

	Convey("Unknown levels and formats are rejected", t, func() {
		So(SetLevelString("loud"), ShouldNotBeNil)
		So(InitWithWriter(&bytes.Buffer{}, "xml"), ShouldNotBeNil)
	})

	Convey("Text format and Nop both work", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf, "text"), ShouldBeNil)
		So(SetLevelString("info"), ShouldBeNil)
		Get().Warn(context.Background(), "careful", Float64("ratio", 0.5))
		So(strings.Contains(buf.String(), "careful"), ShouldBeTrue)
		So(func() { Nop().Info(context.Background(), "nothing") }, ShouldNotPanic)
	})
}
