package smoke

import "math"

// Comparison tolerance for replayed frames.
const frameEpsilon = 1e-9

// verifyFrame checks the structural invariants of a frame response:
// the fraction stays inside a step, the index is non-negative, and the
// projected outline carries one point per scored axis.
func verifyFrame(f frameResponse, subject string) bool {
	if f.Subject != subject {
		return false
	}
	if f.Index < 0 {
		return false
	}
	if f.Fraction < 0 || f.Fraction >= 1 {
		return false
	}
	if len(f.Points) == 0 || len(f.Points) != len(f.Scores) {
		return false
	}
	if f.TimeLabel == "" {
		return false
	}
	return true
}

// framesEqual reports whether two frame responses resolve to the same
// playback position and geometry.
func framesEqual(a, b frameResponse) bool {
	if a.Index != b.Index || a.TimeLabel != b.TimeLabel {
		return false
	}
	if math.Abs(a.Fraction-b.Fraction) > frameEpsilon {
		return false
	}
	if len(a.Points) != len(b.Points) {
		return false
	}
	for i := range a.Points {
		if math.Abs(a.Points[i].X-b.Points[i].X) > frameEpsilon ||
			math.Abs(a.Points[i].Y-b.Points[i].Y) > frameEpsilon {
			return false
		}
	}
	return true
}
