package model

import "time"

// FeedbackEvent is one accept/decline submitted by a user. Applied
// asynchronously to the profile signal by the feedback workers.
type FeedbackEvent struct {
	EventID  string // unique id for idempotency
	UserID   string
	VenueID  string
	Category Category
	Accepted bool // false means declined
	TS       time.Time
}
