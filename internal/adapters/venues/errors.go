package venues

import (
	"errors"
	"fmt"
)

// Sentinel kinds for venue adapter errors.
var (
	// ErrUnavailable means the collaborator failed, timed out, or the
	// breaker is open. Callers degrade to their cached ranking.
	ErrUnavailable = errors.New("venue provider unavailable")
)

// WrapFetch tags a fetch failure as ErrUnavailable while keeping the
// cause for errors.Is/As.
func WrapFetch(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
