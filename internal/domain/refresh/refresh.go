// Package refresh gates how often a user may trigger a candidate
// fetch, based on subscription tier and last-refresh time.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/okian/rove/internal/domain/model"
)

// State is the per-user gate state.
type State int

// Gate states.
const (
	StateEligible State = iota
	StateCooling
)

// String returns a human-readable state name.
func (s State) String() string {
	if s == StateCooling {
		return "cooling"
	}
	return "eligible"
}

// Status is the answer to an eligibility check.
type Status struct {
	State      State
	Eligible   bool
	RetryAfter time.Duration
}

// Gate decides whether a refresh is allowed right now. Callers must
// not hold any gate lock across the candidate fetch itself: Check
// before fetching, Commit only after the fetch succeeds. A failed or
// timed-out fetch is simply never committed, so no partial cooldown
// is recorded.
type Gate interface {
	// Check computes eligibility from the stored last-refresh time and
	// the tier's cooldown. Tier changes take effect immediately: the
	// new tier's cooldown is applied to the same stored timestamp.
	Check(ctx context.Context, userID string, tier model.Tier, now time.Time) Status

	// Commit records a successful refresh at now. It re-checks
	// eligibility under the per-user lock and returns false when a
	// concurrent refresh won the race; the loser observes Cooling and
	// should serve its cached ranking instead.
	Commit(ctx context.Context, userID string, tier model.Tier, now time.Time) bool

	// LastRefresh reports the stored timestamp, if any.
	LastRefresh(ctx context.Context, userID string) (time.Time, bool)
}

// entry holds one user's refresh state. The mutex scope is a handful
// of time comparisons; it is never held across I/O.
type entry struct {
	mu   sync.Mutex
	last time.Time
	tier model.Tier
}

// InMemoryGate implements Gate keyed by user id. Entries are created
// on first refresh and never deleted.
type InMemoryGate struct {
	entries sync.Map // userID -> *entry
}

// NewInMemoryGate creates an empty gate.
func NewInMemoryGate() *InMemoryGate {
	return &InMemoryGate{}
}

func (g *InMemoryGate) get(userID string) (*entry, bool) {
	v, ok := g.entries.Load(userID)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

// Check computes the user's current eligibility.
func (g *InMemoryGate) Check(_ context.Context, userID string, tier model.Tier, now time.Time) Status {
	e, ok := g.get(userID)
	if !ok {
		// No refresh recorded yet: first fetch is always allowed.
		return Status{State: StateEligible, Eligible: true}
	}

	e.mu.Lock()
	last := e.last
	e.mu.Unlock()

	remaining := tier.Cooldown() - now.Sub(last)
	if remaining <= 0 {
		return Status{State: StateEligible, Eligible: true}
	}
	return Status{State: StateCooling, RetryAfter: remaining}
}

// Commit transitions Eligible -> Cooling by recording now as the
// last successful refresh. The compare-and-swap under the per-user
// lock guarantees at most one of two concurrent refreshes lands
// within a single cooldown window. Timestamps never move backwards.
func (g *InMemoryGate) Commit(_ context.Context, userID string, tier model.Tier, now time.Time) bool {
	v, _ := g.entries.LoadOrStore(userID, &entry{})
	e := v.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.last.IsZero() {
		if now.Before(e.last) {
			return false
		}
		if now.Sub(e.last) < tier.Cooldown() {
			return false
		}
	}
	e.last = now
	e.tier = tier
	return true
}

// LastRefresh reports the stored last-refresh timestamp.
func (g *InMemoryGate) LastRefresh(_ context.Context, userID string) (time.Time, bool) {
	e, ok := g.get(userID)
	if !ok {
		return time.Time{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last.IsZero() {
		return time.Time{}, false
	}
	return e.last, true
}
