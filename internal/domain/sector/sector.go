// Package sector partitions the radar polygon into colored regions:
// solid-colored triangles within a group, thin color-blended slices
// across a group boundary.
package sector

import (
	"fmt"
	"math"

	"github.com/stagescape/radial/internal/domain/blend"
	"github.com/stagescape/radial/internal/domain/chart"
	"github.com/stagescape/radial/internal/domain/layout"
)

// Default builder configuration constants.
const (
	defaultBoundarySlices = 6
	defaultInnerOpacity   = 0.12
	defaultOuterOpacity   = 0.85
)

// Kind distinguishes sector flavors.
type Kind uint8

// Sector kinds.
const (
	// Pure is a triangle wholly inside one group.
	Pure Kind = iota
	// Blend is one thin slice of a boundary between two groups.
	Blend
)

// Sector is one renderable colored region of the polygon for the
// current frame. Sectors are recomputed every frame and owned by the
// render pass that built them; they must never be cached across frames.
type Sector struct {
	Kind  Kind
	Group chart.Group

	// Triangle corners: the shared center and two outer points.
	Center layout.Point
	OuterA layout.Point
	OuterB layout.Point

	// Fill color and the radial gradient opacity stops. The inner stop
	// is materially more transparent than the outer one so sectors
	// taper toward the center instead of reading as a flat disc.
	Fill         blend.Color
	InnerOpacity float64
	OuterOpacity float64

	// Angular span covered by this sector, in radians. The spans of one
	// frame's sectors tile [0, 2π) exactly.
	SpanStart float64
	SpanEnd   float64
}

// Width returns the sector's angular width in radians.
func (s Sector) Width() float64 { return s.SpanEnd - s.SpanStart }

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithBoundarySlices sets how many slices subdivide a group boundary.
func WithBoundarySlices(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.slices = n
		}
	}
}

// WithOpacityStops sets the radial gradient opacity stops. Inner must
// stay below outer to preserve the taper.
func WithOpacityStops(inner, outer float64) Option {
	return func(b *Builder) {
		if inner >= 0 && outer > inner && outer <= 1 {
			b.innerOpacity = inner
			b.outerOpacity = outer
		}
	}
}

// Builder derives one frame's sectors from the frame's per-axis points.
type Builder struct {
	colors       blend.Map
	slices       int
	innerOpacity float64
	outerOpacity float64
}

// NewBuilder creates a builder with the given group palette and options.
func NewBuilder(colors blend.Map, opts ...Option) *Builder {
	b := &Builder{
		colors:       colors,
		slices:       defaultBoundarySlices,
		innerOpacity: defaultInnerOpacity,
		outerOpacity: defaultOuterOpacity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BoundarySlices returns the configured slices per boundary edge.
func (b *Builder) BoundarySlices() int { return b.slices }

// Build partitions the polygon for one frame. points holds one point
// per axis, in axis order; axes supplies group membership. The result
// is ordered back-to-front so semi-transparent fills compose correctly.
func (b *Builder) Build(center layout.Point, points []layout.Point, axes []chart.Axis) ([]Sector, error) {
	if len(points) != len(axes) {
		return nil, fmt.Errorf("%w: %d points for %d axes", ErrPointCount, len(points), len(axes))
	}
	n := len(axes)
	if n == 0 {
		return nil, nil
	}

	step := 2 * math.Pi / float64(n)
	sectors := make([]Sector, 0, n)
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		spanStart := layout.AngleOf(i, n)
		ga, gb := axes[i].Group, axes[next].Group

		if ga == gb {
			sectors = append(sectors, Sector{
				Kind:         Pure,
				Group:        ga,
				Center:       center,
				OuterA:       points[i],
				OuterB:       points[next],
				Fill:         b.colors[ga],
				InnerOpacity: b.innerOpacity,
				OuterOpacity: b.outerOpacity,
				SpanStart:    spanStart,
				SpanEnd:      spanStart + step,
			})
			continue
		}

		// Group boundary: subdivide the span into thin slices, lerping
		// the edge points along the chord and blending the two group
		// colors at each slice's midpoint fraction.
		sliceStep := step / float64(b.slices)
		for s := 0; s < b.slices; s++ {
			f0 := float64(s) / float64(b.slices)
			f1 := float64(s+1) / float64(b.slices)
			mid := (f0 + f1) / 2
			sectors = append(sectors, Sector{
				Kind:         Blend,
				Group:        ga,
				Center:       center,
				OuterA:       points[i].Lerp(points[next], f0),
				OuterB:       points[i].Lerp(points[next], f1),
				Fill:         blend.Blend(b.colors[ga], b.colors[gb], mid),
				InnerOpacity: b.innerOpacity,
				OuterOpacity: b.outerOpacity,
				SpanStart:    spanStart + float64(s)*sliceStep,
				SpanEnd:      spanStart + float64(s+1)*sliceStep,
			})
		}
	}
	return sectors, nil
}
