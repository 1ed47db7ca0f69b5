package curve_test

import (
	"testing"

	"github.com/stagescape/radial/internal/domain/curve"
	"github.com/stagescape/radial/internal/domain/layout"
	. "github.com/smartystreets/goconvey/convey"
)

const eps = 1e-9

func samplePoints() []layout.Point {
	return []layout.Point{
		{X: 0, Y: 0},
		{X: 10, Y: 20},
		{X: 25, Y: 15},
		{X: 40, Y: 30},
		{X: 55, Y: 5},
	}
}

func TestFit(t *testing.T) {
	Convey("Given curve fitting", t, func() {
		pts := samplePoints()

		Convey("Fewer than two points should yield an empty path", func() {
			So(curve.Fit(nil, curve.DefaultTension).Empty(), ShouldBeTrue)
			So(curve.Fit(pts[:1], curve.DefaultTension).Empty(), ShouldBeTrue)
		})

		Convey("The path should open with a MoveTo at the first point", func() {
			p := curve.Fit(pts, curve.DefaultTension)
			start, ok := p.Start()
			So(ok, ShouldBeTrue)
			So(start, ShouldResemble, pts[0])
		})

		Convey("Each consecutive pair should become one cubic ending on a real point", func() {
			p := curve.Fit(pts, curve.DefaultTension)
			So(len(p.Segments), ShouldEqual, len(pts))

			cubicIdx := 0
			for _, s := range p.Segments[1:] {
				So(s.Op, ShouldEqual, curve.OpCubicTo)
				So(s.P3, ShouldResemble, pts[cubicIdx+1])
				cubicIdx++
			}
		})

		Convey("The fit should interpolate, not approximate", func() {
			p := curve.Fit(pts, curve.DefaultTension)
			n := len(pts)
			for i, want := range pts {
				got := p.PointAt(float64(i) / float64(n-1))
				So(got.X, ShouldAlmostEqual, want.X, eps)
				So(got.Y, ShouldAlmostEqual, want.Y, eps)
			}
		})

		Convey("Control points should follow the local tangents", func() {
			p := curve.Fit(pts, curve.DefaultTension)
			// Interior tangent at pts[1] is (pts[2]-pts[0]) * tension.
			tan := pts[2].Sub(pts[0]).Scale(curve.DefaultTension)
			wantP1 := pts[1].Add(tan.Scale(1.0 / 3.0))
			seg := p.Segments[2]
			So(seg.P1.X, ShouldAlmostEqual, wantP1.X, eps)
			So(seg.P1.Y, ShouldAlmostEqual, wantP1.Y, eps)
		})

		Convey("Identical inputs should produce identical paths", func() {
			a := curve.Fit(pts, curve.DefaultTension)
			b := curve.Fit(samplePoints(), curve.DefaultTension)
			So(a, ShouldResemble, b)
		})

		Convey("Zero tension should reduce to straight-ish segments through the points", func() {
			p := curve.Fit(pts, 0)
			for i, s := range p.Segments[1:] {
				So(s.P1, ShouldResemble, pts[i])
				So(s.P2, ShouldResemble, pts[i+1])
			}
		})
	})
}

func TestFitArea(t *testing.T) {
	Convey("Given area fitting against a baseline", t, func() {
		pts := samplePoints()

		Convey("The region should drop to the baseline and close", func() {
			p := curve.FitArea(pts, curve.DefaultTension, 100)
			n := len(p.Segments)
			So(n, ShouldEqual, len(pts)+3)

			So(p.Segments[n-3].Op, ShouldEqual, curve.OpLineTo)
			So(p.Segments[n-3].P1, ShouldResemble, layout.Point{X: 55, Y: 100})
			So(p.Segments[n-2].Op, ShouldEqual, curve.OpLineTo)
			So(p.Segments[n-2].P1, ShouldResemble, layout.Point{X: 0, Y: 100})
			So(p.Segments[n-1].Op, ShouldEqual, curve.OpClose)
		})

		Convey("An empty input should stay empty", func() {
			So(curve.FitArea(nil, curve.DefaultTension, 100).Empty(), ShouldBeTrue)
		})
	})
}

func TestPointAt(t *testing.T) {
	Convey("Given path sampling", t, func() {
		pts := samplePoints()
		p := curve.Fit(pts, curve.DefaultTension)

		Convey("Out-of-range parameters should clamp to the endpoints", func() {
			So(p.PointAt(-0.5), ShouldResemble, pts[0])
			So(p.PointAt(1.5), ShouldResemble, pts[len(pts)-1])
		})

		Convey("Closing segments should not disturb sampling", func() {
			area := curve.FitArea(pts, curve.DefaultTension, 100)
			for _, tt := range []float64{0, 0.25, 0.5, 0.75, 1} {
				a := p.PointAt(tt)
				b := area.PointAt(tt)
				So(b.X, ShouldAlmostEqual, a.X, eps)
				So(b.Y, ShouldAlmostEqual, a.Y, eps)
			}
		})

		Convey("An empty path should sample to the origin point", func() {
			So(curve.Path{}.PointAt(0.5), ShouldResemble, layout.Point{})
		})
	})
}
