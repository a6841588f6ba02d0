// Package seen tracks which venues a user has been shown or has
// declined. Shown venues feed the freshness component with a bounded
// recency window; declined venues are excluded from the feed for good.
package seen

import (
	"context"
	"sync"
)

// Default size of the per-user recently-shown window.
const defaultWindowSize = 50

// Tracker records venue exposure per user.
type Tracker interface {
	// MarkShown records that the venues were served to the user. The
	// window is bounded; the oldest entries fall out first.
	MarkShown(ctx context.Context, userID string, venueIDs ...string)

	// RecentlyShown returns a snapshot of the user's shown window.
	RecentlyShown(ctx context.Context, userID string) map[string]struct{}

	// MarkDeclined permanently excludes the venue from the user's feed.
	MarkDeclined(ctx context.Context, userID, venueID string)

	// Declined returns a snapshot of the user's declined venues.
	Declined(ctx context.Context, userID string) map[string]struct{}
}

// userHistory holds one user's exposure state. ring is a fixed-size
// FIFO of shown venue ids; members mirrors it for O(1) lookups.
type userHistory struct {
	mu       sync.Mutex
	ring     []string
	next     int
	members  map[string]int // venue id -> occurrences in ring
	declined map[string]struct{}
}

// InMemoryTracker implements Tracker keyed by user id.
type InMemoryTracker struct {
	windowSize int
	mu         sync.RWMutex
	users      map[string]*userHistory
}

// NewInMemoryTracker creates a tracker with configuration options.
func NewInMemoryTracker(opts ...Option) *InMemoryTracker {
	t := &InMemoryTracker{
		windowSize: defaultWindowSize,
		users:      make(map[string]*userHistory),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *InMemoryTracker) user(userID string) *userHistory {
	t.mu.RLock()
	h, ok := t.users[userID]
	t.mu.RUnlock()
	if ok {
		return h
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok = t.users[userID]; ok {
		return h
	}
	h = &userHistory{
		ring:     make([]string, t.windowSize),
		members:  make(map[string]int),
		declined: make(map[string]struct{}),
	}
	t.users[userID] = h
	return h
}

// MarkShown appends venues to the user's shown window.
func (t *InMemoryTracker) MarkShown(_ context.Context, userID string, venueIDs ...string) {
	h := t.user(userID)
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, id := range venueIDs {
		if id == "" {
			continue
		}
		if old := h.ring[h.next]; old != "" {
			if h.members[old] <= 1 {
				delete(h.members, old)
			} else {
				h.members[old]--
			}
		}
		h.ring[h.next] = id
		h.members[id]++
		h.next = (h.next + 1) % len(h.ring)
	}
}

// RecentlyShown snapshots the user's shown window.
func (t *InMemoryTracker) RecentlyShown(_ context.Context, userID string) map[string]struct{} {
	h := t.user(userID)
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]struct{}, len(h.members))
	for id := range h.members {
		out[id] = struct{}{}
	}
	return out
}

// MarkDeclined records a permanent exclusion.
func (t *InMemoryTracker) MarkDeclined(_ context.Context, userID, venueID string) {
	if venueID == "" {
		return
	}
	h := t.user(userID)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.declined[venueID] = struct{}{}
}

// Declined snapshots the user's permanently excluded venues.
func (t *InMemoryTracker) Declined(_ context.Context, userID string) map[string]struct{} {
	h := t.user(userID)
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]struct{}, len(h.declined))
	for id := range h.declined {
		out[id] = struct{}{}
	}
	return out
}
