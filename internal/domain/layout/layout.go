// Package layout maps the instrument's ordered axes onto angular
// positions around a center point and projects scores to 2D points.
package layout

import (
	"fmt"
	"math"

	"github.com/stagescape/radial/internal/domain/chart"
)

// Point is a coordinate in the rendering surface's space.
// Points are derived per frame, never authored or cached.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Lerp linearly interpolates from p toward q by t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// FrameGeometry is the read shape for one resolved playback frame:
// interpolated scores and their projected outline points, in axis order.
// Scores that are absent at both surrounding snapshots stay nil.
type FrameGeometry struct {
	Subject   string              `json:"subject"`
	TimeLabel string              `json:"time_label"`
	NextLabel string              `json:"next_label,omitempty"`
	Index     int                 `json:"index"`
	Fraction  float64             `json:"fraction"`
	Scores    map[string]*float64 `json:"scores"`
	Points    []Point             `json:"points"`
}

// AngleOf returns the angle in radians of axis i out of total axes.
// Axis 0 sits at the top (-π/2); the rest follow clockwise at even
// increments of 2π/total.
func AngleOf(i, total int) float64 {
	return -math.Pi/2 + 2*math.Pi*float64(i)/float64(total)
}

// PointFor projects a score onto the axis ray. The score is normalized
// into [0,1] over rng, scaled by radius, and projected along AngleOf.
// The function is pure and never clamps; callers validate the score via
// rng.Validate and decide policy for out-of-range values.
func PointFor(center Point, radius float64, i, total int, score float64, rng chart.Range) Point {
	t := rng.Normalize(score)
	a := AngleOf(i, total)
	return Point{
		X: center.X + radius*t*math.Cos(a),
		Y: center.Y + radius*t*math.Sin(a),
	}
}

// ProjectVector projects one full score vector to a point per axis, in
// axis order. Missing scores are pinned to the center when pinMissing
// is set; otherwise the axis key must be filtered out by the caller and
// an absent score is reported as an error. Out-of-range scores are
// rejected, never clamped.
func ProjectVector(center Point, radius float64, axes []chart.Axis, vec chart.ScoreVector, rng chart.Range, pinMissing bool) ([]Point, error) {
	pts := make([]Point, len(axes))
	for i, ax := range axes {
		s, ok := vec[ax.Key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", chart.ErrUnknownAxisKey, ax.Key)
		}
		if !s.Valid {
			if !pinMissing {
				return nil, fmt.Errorf("%w: %q (filter the axis out or enable pinning)", chart.ErrMissingScore, ax.Key)
			}
			pts[i] = center
			continue
		}
		if err := rng.Validate(s.Value); err != nil {
			return nil, fmt.Errorf("axis %q: %w", ax.Key, err)
		}
		pts[i] = PointFor(center, radius, i, len(axes), s.Value, rng)
	}
	return pts, nil
}
