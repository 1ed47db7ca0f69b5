package interp_test

import (
	"errors"
	"testing"

	"github.com/stagescape/radial/internal/domain/chart"
	"github.com/stagescape/radial/internal/domain/interp"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInterpolate(t *testing.T) {
	Convey("Given two adjacent snapshots", t, func() {
		a := chart.ScoreVector{
			"grandeur": chart.SomeScore(2),
			"heritage": chart.SomeScore(4),
			"craft":    chart.SomeScore(3),
		}
		b := chart.ScoreVector{
			"grandeur": chart.SomeScore(4),
			"heritage": chart.SomeScore(4),
			"craft":    chart.SomeScore(1),
		}

		Convey("t=0 should reproduce the first snapshot", func() {
			out, err := interp.Interpolate(a, b, 0)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, a)
		})

		Convey("t=1 should reproduce the second snapshot", func() {
			out, err := interp.Interpolate(a, b, 1)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, b)
		})

		Convey("The midpoint should interpolate each axis independently", func() {
			out, err := interp.Interpolate(a, b, 0.5)
			So(err, ShouldBeNil)
			So(out["grandeur"].Value, ShouldAlmostEqual, 3)
			So(out["heritage"].Value, ShouldAlmostEqual, 4)
			So(out["craft"].Value, ShouldAlmostEqual, 2)
		})

		Convey("t beyond 1 should extrapolate, not clamp", func() {
			out, err := interp.Interpolate(a, b, 1.5)
			So(err, ShouldBeNil)
			So(out["grandeur"].Value, ShouldAlmostEqual, 5)
			So(out["craft"].Value, ShouldAlmostEqual, 0)
		})

		Convey("An absent score on either side should stay absent", func() {
			a["craft"] = chart.NoScore()
			out, err := interp.Interpolate(a, b, 0.5)
			So(err, ShouldBeNil)
			So(out["craft"].Valid, ShouldBeFalse)

			out, err = interp.Interpolate(b, a, 0.25)
			So(err, ShouldBeNil)
			So(out["craft"].Valid, ShouldBeFalse)
			So(out["grandeur"].Valid, ShouldBeTrue)
		})

		Convey("Mismatched key sets should fail with no partial result", func() {
			short := chart.ScoreVector{"grandeur": chart.SomeScore(2)}
			out, err := interp.Interpolate(a, short, 0.5)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, interp.ErrMismatchedAxisKeys), ShouldBeTrue)
			So(out, ShouldBeNil)
		})
	})
}
