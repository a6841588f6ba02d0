package calendar

import "errors"

// Sentinel kinds for calendar errors.
var (
	ErrInvalidProposal = errors.New("invalid schedule proposal")
)
