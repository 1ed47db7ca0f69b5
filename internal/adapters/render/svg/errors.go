package svg

import "errors"

// Sentinel kinds for renderer errors.
var (
	ErrEmptySeries = errors.New("series has no snapshots")
)
