// Package catalog defines the dataset store interface and errors. The
// catalog stands in for the hosted research dataset: a fixed instrument
// plus per-subject multi-year score series, loaded once and read-only
// thereafter.
package catalog

import (
	"context"

	"github.com/stagescape/radial/internal/domain/blend"
	"github.com/stagescape/radial/internal/domain/chart"
)

// Store provides read access to the instrument and the score series.
type Store interface {
	// Axes returns the instrument's axes in their fixed angular order.
	Axes() []chart.Axis

	// Colors returns the group palette.
	Colors() blend.Map

	// Range returns the closed score range.
	Range() chart.Range

	// Subjects lists subject names in sorted order.
	Subjects(ctx context.Context) []string

	// Series returns a subject's time series.
	// Returns ErrNotFound if the subject is unknown.
	Series(ctx context.Context, subject string) (chart.Series, error)

	// Count returns the number of subjects in the catalog.
	Count(ctx context.Context) int
}
