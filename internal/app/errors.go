package service

import "errors"

// Sentinel errors for the service layer.
var (
	ErrNotStarted  = errors.New("service not started")
	ErrUnknownYear = errors.New("snapshot year not found")
)
