package annot

import "errors"

var (
	// ErrNotFound is returned when an operation names an unknown line id.
	ErrNotFound = errors.New("line not found")
	// ErrInvalidInput is returned for out-of-range points, malformed
	// attributes and bad import records.
	ErrInvalidInput = errors.New("invalid input")
)
