package api

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when a move or delete references a
	// position outside [0, len-1].
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMalformedData is returned when persisted bytes do not decode to a
	// well-formed sequence of steps.
	ErrMalformedData = errors.New("malformed workflow data")

	// ErrUnknownKind is returned for step kinds that are not in the palette.
	ErrUnknownKind = errors.New("unknown step kind")

	// ErrInvalidStep is returned when a step's payload does not match its kind.
	ErrInvalidStep = errors.New("invalid step")

	// ErrNotFound is returned by byte stores when nothing is saved under a key.
	ErrNotFound = errors.New("no saved workflow found")
)

// IndexError describes a rejected positional index.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0, %d)", e.Op, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
