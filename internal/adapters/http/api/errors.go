package api

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest flags a request the caller can fix.
	ErrBadRequest = errors.New("bad request")
	// ErrBackpressure flags a full feedback queue.
	ErrBackpressure = errors.New("feedback queue is full")
)

// NewKind creates an operation-scoped instance of a sentinel error.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// Wrap annotates err with the failing operation.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind attaches both a sentinel kind and the underlying cause.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
