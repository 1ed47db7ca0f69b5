// Package svg renders engine geometry to standalone SVG documents.
package svg

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithCanvasSize sets the square viewport edge in user units.
func WithCanvasSize(size float64) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.canvas = size
		}
	}
}

// WithRadius sets the radar polygon's outer radius.
func WithRadius(radius float64) Option {
	return func(r *Renderer) {
		if radius > 0 {
			r.radius = radius
		}
	}
}

// WithTension sets the curve fitting smoothing factor.
func WithTension(tension float64) Option {
	return func(r *Renderer) {
		if tension > 0 {
			r.tension = tension
		}
	}
}

// WithGhostTrail sets how many preceding snapshots a timelapse frame
// renders behind the current polygon.
func WithGhostTrail(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.ghost = n
		}
	}
}

// WithBoundarySlices sets the sector subdivision at group boundaries.
func WithBoundarySlices(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.slices = n
		}
	}
}
