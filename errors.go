package cubefield

import "errors"

var (
	ErrInvalidPopulation = errors.New("population must be a non-negative integer")
	ErrInvalidBoundary   = errors.New("boundary must be a positive finite number")
	ErrInvalidWorkers    = errors.New("workers must be at least 1")
	// ErrLayoutMismatch means the state store and the merged buffer disagree on the cube count.
	ErrLayoutMismatch = errors.New("cube state and vertex buffer layout mismatch")
)
