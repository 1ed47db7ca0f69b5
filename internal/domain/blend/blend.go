// Package blend mixes group base colors so adjacent wedges from
// different thematic groups meet without a hard color seam.
package blend

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/stagescape/radial/internal/domain/chart"
)

// Color is an RGB color with float components in [0,1].
type Color = colorful.Color

// Map assigns one base color per thematic group. Fixed for the chart's
// lifetime.
type Map map[chart.Group]Color

// DefaultMap returns the published palette for the three groups.
// Colors are drawn from Paul Tol's colorblind-safe qualitative set.
func DefaultMap() Map {
	return Map{
		chart.GroupSpace: MustHex("#4477AA"),
		chart.GroupStory: MustHex("#EE6677"),
		chart.GroupStage: MustHex("#228833"),
	}
}

// Blend interpolates component-wise between a and b in RGB. t=0 returns
// exactly a, t=1 exactly b, and Blend(a,b,t) == Blend(b,a,1-t).
func Blend(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// Hex parses a "#rrggbb" color.
func Hex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return c, nil
}

// MustHex parses a "#rrggbb" color and panics on malformed input. Use
// only for compile-time palettes.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
