// Package calendar is the calendar-store collaborator boundary. The
// engine reads events and proposes new ones; it never mutates
// existing entries.
package calendar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rove/internal/domain/model"
)

// Store provides read access to a user's calendar and the write path
// for confirmed proposals.
type Store interface {
	// ListEvents returns events overlapping [from, to), ordered by
	// start time.
	ListEvents(ctx context.Context, userID string, from, to time.Time) ([]model.CalendarEvent, error)

	// CreateEvent materializes a confirmed proposal as a new event and
	// returns its id. Conflict proposals are rejected.
	CreateEvent(ctx context.Context, userID string, proposal model.ScheduleProposal) (string, error)
}

// InMemoryStore implements Store for tests and standalone runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]model.CalendarEvent // userID -> events
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]model.CalendarEvent)}
}

// Seed inserts pre-existing events for a user, bypassing proposal
// checks. Intended for tests and the demo generator.
func (s *InMemoryStore) Seed(userID string, events ...model.CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		s.events[userID] = append(s.events[userID], ev)
	}
}

// ListEvents returns the user's events overlapping [from, to).
func (s *InMemoryStore) ListEvents(_ context.Context, userID string, from, to time.Time) ([]model.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.CalendarEvent
	for _, ev := range s.events[userID] {
		if ev.Overlaps(from, to) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// CreateEvent stores a confirmed proposal as a calendar event.
func (s *InMemoryStore) CreateEvent(_ context.Context, userID string, proposal model.ScheduleProposal) (string, error) {
	if proposal.Conflict || proposal.Start.IsZero() || !proposal.Start.Before(proposal.End) {
		return "", ErrInvalidProposal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.events[userID] = append(s.events[userID], model.CalendarEvent{
		ID:    id,
		Start: proposal.Start,
		End:   proposal.End,
	})
	return id, nil
}
