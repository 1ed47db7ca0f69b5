package chart

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrScoreOutOfRange = errors.New("score out of range")
	ErrMissingScore    = errors.New("missing score")
	ErrUnknownAxisKey  = errors.New("unknown axis key")
	ErrTimeOrder       = errors.New("time labels not strictly increasing")
)
