package store

import "errors"

var (
	// ErrNotFound reports a Get for an id the store has never accepted.
	ErrNotFound = errors.New("store: entry not found")

	// ErrDimensionMismatch reports a vector whose length differs from the
	// store's established dimensionality.
	ErrDimensionMismatch = errors.New("store: vector dimension mismatch")

	// ErrEmptyID reports a Put with no id.
	ErrEmptyID = errors.New("store: entry id is empty")

	// ErrEmptyVector reports a Put with a zero-length vector.
	ErrEmptyVector = errors.New("store: entry vector is empty")
)
