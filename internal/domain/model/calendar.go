package model

import "time"

// CalendarEvent is an existing entry in the user's calendar. Owned by
// the calendar collaborator; the scheduler only reads it.
type CalendarEvent struct {
	ID    string
	Start time.Time
	End   time.Time
	Coord *Coordinate // nil when the event has no location
}

// Overlaps reports whether the event intersects [start, end).
func (e CalendarEvent) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && start.Before(e.End)
}

// ScheduleProposal is the scheduler's answer for one venue: either a
// concrete start/end, or Conflict when no viable slot exists within
// the planning horizon.
type ScheduleProposal struct {
	ID      string
	VenueID string
	Start   time.Time
	End     time.Time

	// Conflict is set when no slot survived; Start/End are zero.
	Conflict bool

	// TightSchedule advises that the chosen slot could not fit the
	// travel buffer on both sides.
	TightSchedule bool
}
