package interp

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMismatchedAxisKeys = errors.New("score vectors cover different axis keys")
)
