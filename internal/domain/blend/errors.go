package blend

import "errors"

// Sentinel error kinds for this package.
var (
	ErrBadColor = errors.New("malformed color")
)
