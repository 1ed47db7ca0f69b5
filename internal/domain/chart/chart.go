// Package chart contains the shared data model passed between the
// geometry engine and its hosting renderers.
package chart

import (
	"fmt"
	"sort"
)

// Group identifies the thematic cluster an axis belongs to.
type Group string

// Thematic groups of the instrument.
const (
	GroupSpace Group = "SPACE"
	GroupStory Group = "STORY"
	GroupStage Group = "STAGE"
)

// Axis is one named, scored dimension of the instrument.
// Axes are declared once, in a fixed order; that order defines the
// angular position of each axis and must not change for the lifetime
// of a chart instance.
type Axis struct {
	// Key identifies the score field in a ScoreVector.
	Key string
	// Label is display text. It may contain a '\n' for two-line wrapping.
	Label string
	// Group is the thematic cluster the axis belongs to.
	Group Group
}

// Score is a nullable score value. A missing score is distinct from the
// bottom of the range and must render as absence, never as Min.
type Score struct {
	Value float64
	Valid bool
}

// SomeScore returns a present score.
func SomeScore(v float64) Score { return Score{Value: v, Valid: true} }

// NoScore returns an absent score.
func NoScore() Score { return Score{} }

// ScoreVector maps axis keys to scores. Instances are created by the
// data layer and are read-only inputs to the engine.
type ScoreVector map[string]Score

// Keys returns the vector's axis keys in sorted order.
func (v ScoreVector) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SameKeys reports whether both vectors cover the identical key set.
func (v ScoreVector) SameKeys(o ScoreVector) bool {
	if len(v) != len(o) {
		return false
	}
	for k := range v {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}

// Snapshot is one fully-specified score vector tagged with a time label.
type Snapshot struct {
	TimeLabel string
	Scores    ScoreVector
}

// Series is an ordered sequence of snapshots for one subject with
// strictly increasing time labels.
type Series struct {
	Subject   string
	Snapshots []Snapshot
}

// Validate checks time ordering and that every snapshot covers exactly
// the keys of the given axes.
func (s Series) Validate(axes []Axis) error {
	for i := 1; i < len(s.Snapshots); i++ {
		if s.Snapshots[i-1].TimeLabel >= s.Snapshots[i].TimeLabel {
			return fmt.Errorf("%w: %q followed by %q", ErrTimeOrder, s.Snapshots[i-1].TimeLabel, s.Snapshots[i].TimeLabel)
		}
	}
	for _, snap := range s.Snapshots {
		if len(snap.Scores) != len(axes) {
			return fmt.Errorf("%w: snapshot %q has %d scores, instrument has %d axes",
				ErrUnknownAxisKey, snap.TimeLabel, len(snap.Scores), len(axes))
		}
		for _, ax := range axes {
			if _, ok := snap.Scores[ax.Key]; !ok {
				return fmt.Errorf("%w: snapshot %q missing %q", ErrUnknownAxisKey, snap.TimeLabel, ax.Key)
			}
		}
	}
	return nil
}

// Range is the closed score range of the instrument.
type Range struct {
	Min float64
	Max float64
}

// Validate signals ErrScoreOutOfRange for values outside [Min, Max].
// It never clamps; policy on out-of-range scores belongs to the caller.
func (r Range) Validate(v float64) error {
	if v < r.Min || v > r.Max {
		return fmt.Errorf("%w: %v outside [%v, %v]", ErrScoreOutOfRange, v, r.Min, r.Max)
	}
	return nil
}

// Normalize maps v into [0,1] over the range. Out-of-range inputs
// extrapolate; validate first if that matters.
func (r Range) Normalize(v float64) float64 {
	return (v - r.Min) / (r.Max - r.Min)
}
