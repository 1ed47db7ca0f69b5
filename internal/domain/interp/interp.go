// Package interp linearly interpolates between two adjacent time
// snapshots of a score vector, one axis at a time.
package interp

import (
	"fmt"

	"github.com/stagescape/radial/internal/domain/chart"
)

// Interpolate produces the score vector at fractional position t
// between a (t=0) and b (t=1). Each axis interpolates independently:
// result[k] = a[k] + (b[k]-a[k]) * t. Values of t outside [0,1]
// extrapolate rather than clamp, so easing layered on top composes
// cleanly; clamp upstream if needed.
//
// The two vectors must cover the identical key set; a mismatch yields
// ErrMismatchedAxisKeys and no partial result, since mixing axis
// schemas is a configuration bug upstream. A score that is absent on
// either side stays absent: absence must never morph into a boundary
// value mid-animation.
func Interpolate(a, b chart.ScoreVector, t float64) (chart.ScoreVector, error) {
	if !a.SameKeys(b) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrMismatchedAxisKeys, a.Keys(), b.Keys())
	}
	out := make(chart.ScoreVector, len(a))
	for k, sa := range a {
		sb := b[k]
		if !sa.Valid || !sb.Valid {
			out[k] = chart.NoScore()
			continue
		}
		out[k] = chart.SomeScore(sa.Value + (sb.Value-sa.Value)*t)
	}
	return out, nil
}
