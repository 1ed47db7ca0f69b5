package playback

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoSnapshots = errors.New("clock needs at least one snapshot")
)
