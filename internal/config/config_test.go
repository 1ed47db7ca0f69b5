package config_test

import (
	"testing"

	"github.com/stagescape/radial/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.CanvasSize, convey.ShouldEqual, 420)
			convey.So(cfg.ChartRadius, convey.ShouldEqual, 160.0)
			convey.So(cfg.Tension, convey.ShouldEqual, 0.35)
			convey.So(cfg.BoundarySlices, convey.ShouldEqual, 6)
			convey.So(cfg.StepDurationMs, convey.ShouldEqual, 2000)
			convey.So(cfg.GhostTrail, convey.ShouldEqual, 3)
			convey.So(cfg.VisibilityThreshold, convey.ShouldEqual, 0.3)
			convey.So(cfg.ExportDir, convey.ShouldEqual, "export")
			convey.So(cfg.ExportQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.ExportWorkers, convey.ShouldEqual, 4)
		})
	})
}
