// Package curve fits smooth interpolating paths through ordered point
// sequences using a cardinal (Catmull-Rom style) spline with local
// tangent estimation.
package curve

import (
	"math"

	"github.com/stagescape/radial/internal/domain/layout"
)

// DefaultTension is the smoothing factor used across the charts.
const DefaultTension = 0.35

// Op is a path verb.
type Op uint8

// Path verbs. A path is a flat sequence of verb-tagged segments, the
// shape a vector renderer consumes directly.
const (
	OpMoveTo Op = iota
	OpLineTo
	OpCubicTo
	OpClose
)

// Segment is one path element. P3 is the destination for OpCubicTo;
// OpMoveTo and OpLineTo use P1 only.
type Segment struct {
	Op         Op
	P1, P2, P3 layout.Point
}

// Path is an ordered sequence of segments. The zero value is empty.
type Path struct {
	Segments []Segment
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool { return len(p.Segments) == 0 }

// Start returns the path's first point, if any.
func (p Path) Start() (layout.Point, bool) {
	if p.Empty() || p.Segments[0].Op != OpMoveTo {
		return layout.Point{}, false
	}
	return p.Segments[0].P1, true
}

// Fit produces a smooth open path through points. Tangents are
// estimated locally: tangent at point i is (points[i+1]-points[i-1]) *
// tension, with phantom endpoints 2*p0-p1 and 2*pn-1 - pn-2 synthesized
// by linear extrapolation so the end segments have sensible tangents.
// Each consecutive pair of real points becomes one cubic Bezier whose
// control points are point ± tangent/3. Fewer than two points yield an
// empty path. The function is pure; identical inputs produce identical
// paths.
func Fit(points []layout.Point, tension float64) Path {
	n := len(points)
	if n < 2 {
		return Path{}
	}

	// Extended control polygon with phantom endpoints.
	ext := make([]layout.Point, n+2)
	ext[0] = points[0].Scale(2).Sub(points[1])
	copy(ext[1:], points)
	ext[n+1] = points[n-1].Scale(2).Sub(points[n-2])

	segs := make([]Segment, 0, n)
	segs = append(segs, Segment{Op: OpMoveTo, P1: points[0]})
	for i := 0; i < n-1; i++ {
		// Tangents at both ends of the segment, indices shifted by one
		// into the extended polygon.
		t0 := ext[i+2].Sub(ext[i]).Scale(tension)
		t1 := ext[i+3].Sub(ext[i+1]).Scale(tension)
		segs = append(segs, Segment{
			Op: OpCubicTo,
			P1: points[i].Add(t0.Scale(1.0 / 3.0)),
			P2: points[i+1].Sub(t1.Scale(1.0 / 3.0)),
			P3: points[i+1],
		})
	}
	return Path{Segments: segs}
}

// FitArea fits a curve through points and closes it into a fillable
// region against a horizontal baseline: two straight drops to baselineY
// under the last and first points, then a close.
func FitArea(points []layout.Point, tension, baselineY float64) Path {
	p := Fit(points, tension)
	if p.Empty() {
		return p
	}
	first := points[0]
	last := points[len(points)-1]
	p.Segments = append(p.Segments,
		Segment{Op: OpLineTo, P1: layout.Point{X: last.X, Y: baselineY}},
		Segment{Op: OpLineTo, P1: layout.Point{X: first.X, Y: baselineY}},
		Segment{Op: OpClose},
	)
	return p
}

// PointAt samples the curved portion of the path at parameter t in
// [0,1], distributed uniformly across cubic segments so the i-th input
// point of an n-point fit sits at t = i/(n-1). Straight closing
// segments are ignored.
func (p Path) PointAt(t float64) layout.Point {
	start, ok := p.Start()
	if !ok {
		return layout.Point{}
	}
	var cubics []Segment
	for _, s := range p.Segments {
		if s.Op == OpCubicTo {
			cubics = append(cubics, s)
		}
	}
	if len(cubics) == 0 {
		return start
	}
	if t <= 0 {
		return start
	}
	if t >= 1 {
		return cubics[len(cubics)-1].P3
	}
	scaled := t * float64(len(cubics))
	idx := int(math.Floor(scaled))
	if idx >= len(cubics) {
		idx = len(cubics) - 1
	}
	local := scaled - float64(idx)
	from := start
	if idx > 0 {
		from = cubics[idx-1].P3
	}
	return cubicAt(from, cubics[idx].P1, cubics[idx].P2, cubics[idx].P3, local)
}

// cubicAt evaluates a cubic Bezier at t.
func cubicAt(p0, c1, c2, p1 layout.Point, t float64) layout.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return layout.Point{
		X: a*p0.X + b*c1.X + c*c2.X + d*p1.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p1.Y,
	}
}
