package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedContainerSource is returned when a node's source value is not a
// collection, sequence or cursor.
var ErrUnsupportedContainerSource = errors.New("unsupported container source")

// ErrInvalidSizeRange is returned for negative or inverted size ranges.
var ErrInvalidSizeRange = errors.New("invalid size range")

// ErrSnapshotNotFound is returned when a snapshot ID cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// UnsupportedSourceError carries the offending node and value.
type UnsupportedSourceError struct {
	Path  string
	Value any
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("%s for %q: %T", ErrUnsupportedContainerSource, e.Path, e.Value)
}

func (e *UnsupportedSourceError) Unwrap() error {
	return ErrUnsupportedContainerSource
}
