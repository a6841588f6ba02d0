package profiles

import "errors"

// Sentinel kinds for profile errors.
var (
	ErrUnknownUser = errors.New("unknown user")
)
