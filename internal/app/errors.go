package app

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrBadInput covers malformed coordinates, unknown users and
	// non-positive K. Rejected synchronously, never retried.
	ErrBadInput = errors.New("bad input")

	// ErrUpstreamUnavailable means a collaborator failed or timed out
	// and no cached ranking could cover for it.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUnknownVenue means the venue id is not in the user's feed nor
	// resolvable by the provider.
	ErrUnknownVenue = errors.New("unknown venue")
)
