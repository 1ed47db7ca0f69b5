package sector

import "errors"

// Sentinel error kinds for this package.
var (
	ErrPointCount = errors.New("point count does not match axis count")
)
