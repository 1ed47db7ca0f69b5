package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound    = errors.New("subject not found")
	ErrBadDataset  = errors.New("malformed dataset")
	ErrLoadDataset = errors.New("load dataset failed")
)
