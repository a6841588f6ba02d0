package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/okian/rove/internal/domain/model"
)

// Default scheduling parameters.
const (
	defaultHorizonDays     = 7
	defaultTravelBuffer    = 15 * time.Minute
	defaultRushPenalty     = 8.0
	defaultAdjacencyBonus  = 10.0
	defaultAdjacencyWindow = 2 * time.Hour
	daypartSlotBonus       = 15.0
	minutesPerDay          = 24 * 60
)

// RushWindow is a daily window, in minutes since midnight, where
// slots are penalized but not excluded.
type RushWindow struct {
	StartMin int
	EndMin   int
}

// DefaultRushWindows covers the morning and evening commutes.
func DefaultRushWindows() []RushWindow {
	return []RushWindow{
		{StartMin: 8 * 60, EndMin: 9 * 60},
		{StartMin: 17 * 60, EndMin: 18 * 60},
	}
}

// Scheduler places one accepted recommendation into the user's
// calendar without conflicts. Pure: it reads calendar data passed in
// and proposes, never writes.
type Scheduler struct {
	horizonDays     int
	travelBuffer    time.Duration
	rushWindows     []RushWindow
	rushPenalty     float64
	adjacencyBonus  float64
	adjacencyWindow time.Duration
}

// NewScheduler creates a scheduler with configuration options.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		horizonDays:     defaultHorizonDays,
		travelBuffer:    defaultTravelBuffer,
		rushWindows:     DefaultRushWindows(),
		rushPenalty:     defaultRushPenalty,
		adjacencyBonus:  defaultAdjacencyBonus,
		adjacencyWindow: defaultAdjacencyWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule computes a proposal for visiting venue given the user's
// existing calendar. preferred overrides the category's typical visit
// duration when positive; it never overrides opening hours.
//
// A Conflict proposal (no start/end) is a first-class result, not an
// error: it means no slot survived within the planning horizon and
// the caller should prompt for manual entry.
func (s *Scheduler) Schedule(_ context.Context, venue model.Venue, calendar []model.CalendarEvent, now time.Time, preferred time.Duration) model.ScheduleProposal {
	duration := venue.Category.TypicalVisit()
	if preferred > 0 {
		duration = preferred
	}

	horizon := Interval{Start: now, End: now.AddDate(0, 0, s.horizonDays)}
	open := s.openIntervals(venue, horizon)
	free := Complement(busyIntervals(calendar), horizon)

	var slots []Interval
	for _, iv := range Intersect(open, free) {
		if iv.Duration() >= duration {
			slots = append(slots, iv)
		}
	}
	if len(slots) == 0 {
		return model.ScheduleProposal{VenueID: venue.ID, Conflict: true}
	}

	// Buffered placement leaves travelBuffer on both sides of the
	// visit; prefer the best slot that can afford it.
	buffered := duration + 2*s.travelBuffer
	best := s.pickBest(slots, venue, calendar, duration, buffered)
	if !best.Empty() {
		start := best.Start.Add(s.travelBuffer)
		return model.ScheduleProposal{
			VenueID: venue.ID,
			Start:   start,
			End:     start.Add(duration),
		}
	}

	// No slot fits the buffer: take the best bare slot and advise.
	tight := s.pickBest(slots, venue, calendar, duration, duration)
	return model.ScheduleProposal{
		VenueID:       venue.ID,
		Start:         tight.Start,
		End:           tight.Start.Add(duration),
		TightSchedule: true,
	}
}

// Validate reports whether [start, end) collides with any existing
// calendar event. Used to warn on manual overrides.
func (s *Scheduler) Validate(_ context.Context, start, end time.Time, calendar []model.CalendarEvent) bool {
	for _, ev := range calendar {
		if ev.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// pickBest returns the highest-scoring slot of at least minLen, with
// ties broken by earlier start. Returns an empty interval when none
// qualifies.
func (s *Scheduler) pickBest(slots []Interval, venue model.Venue, calendar []model.CalendarEvent, duration, minLen time.Duration) Interval {
	type scored struct {
		iv    Interval
		score float64
	}
	var candidates []scored
	for _, iv := range slots {
		if iv.Duration() < minLen {
			continue
		}
		start := iv.Start
		if minLen > duration {
			start = iv.Start.Add(s.travelBuffer)
		}
		candidates = append(candidates, scored{iv: iv, score: s.slotScore(start, duration, venue, calendar)})
	}
	if len(candidates) == 0 {
		return Interval{}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].iv.Start.Before(candidates[j].iv.Start)
	})
	return candidates[0].iv
}

// slotScore ranks a candidate placement: daypart fit for the venue's
// category, closeness to an adjacent calendar event (less schedule
// rearrangement), and a penalty for overlapping a rush window.
func (s *Scheduler) slotScore(start time.Time, duration time.Duration, venue model.Venue, calendar []model.CalendarEvent) float64 {
	score := 0.0
	end := start.Add(duration)

	if pref := venue.Category.PreferredDaypart(); pref != model.DaypartNone && model.DaypartOf(start) == pref {
		score += daypartSlotBonus
	}

	if gap, ok := s.nearestEventGap(start, end, calendar); ok && gap < s.adjacencyWindow {
		score += s.adjacencyBonus * (1 - float64(gap)/float64(s.adjacencyWindow))
	}

	if s.inRushWindow(start, end) {
		score -= s.rushPenalty
	}
	return score
}

// nearestEventGap returns the smallest gap between the visit and any
// calendar event boundary.
func (s *Scheduler) nearestEventGap(start, end time.Time, calendar []model.CalendarEvent) (time.Duration, bool) {
	found := false
	var min time.Duration
	for _, ev := range calendar {
		var gap time.Duration
		switch {
		case !ev.End.After(start):
			gap = start.Sub(ev.End)
		case !end.After(ev.Start):
			gap = ev.Start.Sub(end)
		default:
			continue // overlapping events are busy time, not neighbors
		}
		if !found || gap < min {
			min = gap
			found = true
		}
	}
	return min, found
}

// inRushWindow reports whether any part of the visit overlaps a
// configured rush window on any day it touches.
func (s *Scheduler) inRushWindow(start, end time.Time) bool {
	for day := startOfDay(start); day.Before(end); day = day.AddDate(0, 0, 1) {
		for _, rw := range s.rushWindows {
			w := Interval{
				Start: day.Add(time.Duration(rw.StartMin) * time.Minute),
				End:   day.Add(time.Duration(rw.EndMin) * time.Minute),
			}
			if w.Overlaps(Interval{Start: start, End: end}) {
				return true
			}
		}
	}
	return false
}

// openIntervals enumerates the venue's open spans clamped to horizon.
func (s *Scheduler) openIntervals(venue model.Venue, horizon Interval) []Interval {
	var out []Interval
	for day := startOfDay(horizon.Start); day.Before(horizon.End); day = day.AddDate(0, 0, 1) {
		for _, span := range venue.OpenSpans(day.Weekday()) {
			if span.CloseMin <= span.OpenMin || span.OpenMin < 0 || span.CloseMin > minutesPerDay {
				continue
			}
			iv := Interval{
				Start: day.Add(time.Duration(span.OpenMin) * time.Minute),
				End:   day.Add(time.Duration(span.CloseMin) * time.Minute),
			}.Clamp(horizon)
			if !iv.Empty() {
				out = append(out, iv)
			}
		}
	}
	return MergeIntervals(out)
}

func busyIntervals(calendar []model.CalendarEvent) []Interval {
	out := make([]Interval, 0, len(calendar))
	for _, ev := range calendar {
		out = append(out, Interval{Start: ev.Start, End: ev.End})
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
