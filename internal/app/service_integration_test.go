package service_test

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	service "github.com/stagescape/radial/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service over the sample catalog", t, func() {
		exportDir := t.TempDir()
		svc := service.New(
			service.WithExportDir(exportDir),
			service.WithExportWorkers(2),
			service.WithExportQueueSize(16),
			service.WithStepDuration(2*time.Second),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Subjects should list the sample venues", func() {
			names, err := svc.Subjects(ctx)
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"La Fenice", "Palais Garnier", "The Rose Playhouse"})
		})

		Convey("When rendering radar charts", func() {
			Convey("An empty year should select the latest snapshot", func() {
				doc, err := svc.RadarChart(ctx, "La Fenice", "")
				So(err, ShouldBeNil)
				So(doc, ShouldStartWith, "<svg")
				So(doc, ShouldContainSubstring, "La Fenice (2023)")
			})

			Convey("A specific year should select that snapshot", func() {
				doc, err := svc.RadarChart(ctx, "La Fenice", "2020")
				So(err, ShouldBeNil)
				So(doc, ShouldContainSubstring, "La Fenice (2020)")
			})

			Convey("An unknown year should fail", func() {
				_, err := svc.RadarChart(ctx, "La Fenice", "1999")
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "snapshot year not found")
			})

			Convey("An unknown subject should fail", func() {
				_, err := svc.RadarChart(ctx, "Teatro Colon", "")
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "not found")
			})
		})

		Convey("When rendering timelapse frames", func() {
			Convey("The offset should pick the playback position", func() {
				doc, err := svc.TimelapseChart(ctx, "La Fenice", 5*time.Second)
				So(err, ShouldBeNil)
				So(doc, ShouldStartWith, "<svg")
				So(doc, ShouldContainSubstring, "2021")
			})

			Convey("Positions past one loop should wrap", func() {
				a, err := svc.TimelapseChart(ctx, "La Fenice", time.Second)
				So(err, ShouldBeNil)
				b, err := svc.TimelapseChart(ctx, "La Fenice", time.Second+10*time.Second)
				So(err, ShouldBeNil)

				// Gradient namespaces differ per render; strip them
				// before comparing the geometry.
				So(stripIDs(a), ShouldEqual, stripIDs(b))
			})
		})

		Convey("When rendering the area triptych", func() {
			doc, err := svc.AreaChart(ctx, "Palais Garnier")
			So(err, ShouldBeNil)
			So(doc, ShouldStartWith, "<svg")
			So(doc, ShouldContainSubstring, ">SPACE<")
		})

		Convey("When computing frame geometry", func() {
			Convey("Offset zero should sit exactly on the first year", func() {
				f, err := svc.Frame(ctx, "La Fenice", 0)
				So(err, ShouldBeNil)
				So(f.Subject, ShouldEqual, "La Fenice")
				So(f.TimeLabel, ShouldEqual, "2019")
				So(f.NextLabel, ShouldEqual, "2020")
				So(f.Index, ShouldEqual, 0)
				So(f.Fraction, ShouldAlmostEqual, 0, 1e-9)
				So(len(f.Points), ShouldEqual, 9)
				So(len(f.Scores), ShouldEqual, 9)
			})

			Convey("A mid-step offset should interpolate the scores", func() {
				f, err := svc.Frame(ctx, "La Fenice", 3*time.Second)
				So(err, ShouldBeNil)
				So(f.Index, ShouldEqual, 1)
				So(f.Fraction, ShouldAlmostEqual, 0.5, 1e-9)
				// grandeur runs 3.5 -> 4 across 2020 -> 2021.
				So(f.Scores["grandeur"], ShouldNotBeNil)
				So(*f.Scores["grandeur"], ShouldAlmostEqual, 3.75, 1e-9)
			})

			Convey("An absent score should stay absent in the geometry", func() {
				// The Rose Playhouse 2023 has no craft assessment, and
				// the loop interpolates 2023 back toward 2019.
				f, err := svc.Frame(ctx, "The Rose Playhouse", 9*time.Second)
				So(err, ShouldBeNil)
				So(f.TimeLabel, ShouldEqual, "2023")
				So(f.Scores["craft"], ShouldBeNil)
				So(len(f.Points), ShouldEqual, 9)
			})

			Convey("An unknown subject should fail", func() {
				_, err := svc.Frame(ctx, "Teatro Colon", 0)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When exporting charts", func() {
			Convey("An accepted job should land as a file", func() {
				So(svc.EnqueueExport(ctx, "La Fenice", "radar"), ShouldBeTrue)

				want := filepath.Join(exportDir, "la-fenice-radar.svg")
				So(waitForFile(want, 5*time.Second), ShouldBeTrue)

				data, err := os.ReadFile(want)
				So(err, ShouldBeNil)
				So(string(data), ShouldStartWith, "<svg")
			})

			Convey("Both kinds should export side by side", func() {
				So(svc.EnqueueExport(ctx, "Palais Garnier", "radar"), ShouldBeTrue)
				So(svc.EnqueueExport(ctx, "Palais Garnier", "areas"), ShouldBeTrue)
				So(waitForFile(filepath.Join(exportDir, "palais-garnier-radar.svg"), 5*time.Second), ShouldBeTrue)
				So(waitForFile(filepath.Join(exportDir, "palais-garnier-areas.svg"), 5*time.Second), ShouldBeTrue)
			})
		})

		Convey("Stats should reflect live state", func() {
			_, err := svc.Frame(ctx, "La Fenice", 0)
			So(err, ShouldBeNil)

			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["subjects"], ShouldEqual, 3)
			So(stats["exportWorkers"], ShouldEqual, 2)
			So(stats["activeClocks"], ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}

func TestServiceShutdownDrainsExports(t *testing.T) {
	Convey("Given a started service with a pending export", t, func() {
		exportDir := t.TempDir()
		svc := service.New(
			service.WithExportDir(exportDir),
			service.WithExportWorkers(1),
			service.WithExportQueueSize(16),
		)

		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		So(svc.EnqueueExport(ctx, "La Fenice", "radar"), ShouldBeTrue)

		Convey("Stop should drain the job before returning", func() {
			begin := time.Now()
			svc.Stop()
			// Blocked workers used to burn the full per-worker
			// shutdown timeout and finish writing after Stop.
			So(time.Since(begin), ShouldBeLessThan, 4*time.Second)

			info, err := os.Stat(filepath.Join(exportDir, "la-fenice-radar.svg"))
			So(err, ShouldBeNil)
			So(info.Size(), ShouldBeGreaterThan, 0)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("Repeated Stop calls should be safe", func() {
			svc.Stop()
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

var gradientNamespace = regexp.MustCompile(`g[0-9a-f]{8}-`)

// stripIDs removes the per-render gradient ID namespace so two renders
// of identical geometry compare equal.
func stripIDs(doc string) string {
	return gradientNamespace.ReplaceAllString(doc, "g-")
}

func waitForFile(path string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}
