// Package profiles holds user profiles, subscription tiers, and the
// accumulated accept/decline feedback signal.
package profiles

import (
	"context"
	"sync"

	"github.com/okian/rove/internal/domain/model"
)

// Store provides profile reads and the feedback write path. Feedback
// mutation flows only through the async worker pool.
type Store interface {
	// Profile returns a snapshot of the user's profile, including
	// feedback signal maps. The snapshot is safe to read concurrently.
	Profile(ctx context.Context, userID string) (model.UserProfile, error)

	// Tier returns the user's current subscription tier.
	Tier(ctx context.Context, userID string) (model.Tier, error)

	// ApplyFeedback folds one accept/decline into the user's venue and
	// category signal.
	ApplyFeedback(ctx context.Context, userID, venueID string, category model.Category, accepted bool) error
}

// InMemoryStore implements Store for tests and standalone runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*model.UserProfile
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[string]*model.UserProfile)}
}

// Put inserts or replaces a profile.
func (s *InMemoryStore) Put(p model.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	if cp.VenueSignal == nil {
		cp.VenueSignal = make(map[string]model.FeedbackSignal)
	}
	if cp.CategorySignal == nil {
		cp.CategorySignal = make(map[model.Category]model.FeedbackSignal)
	}
	s.profiles[p.UserID] = &cp
}

// SetTier updates a user's subscription tier. Takes effect on the
// very next eligibility check.
func (s *InMemoryStore) SetTier(userID string, tier model.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return ErrUnknownUser
	}
	p.Tier = tier
	return nil
}

// Profile returns a snapshot of the user's profile.
func (s *InMemoryStore) Profile(_ context.Context, userID string) (model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return model.UserProfile{}, ErrUnknownUser
	}

	out := *p
	out.InterestWeights = copyMap(p.InterestWeights)
	out.VenueSignal = copyMap(p.VenueSignal)
	out.CategorySignal = copyMap(p.CategorySignal)
	return out, nil
}

// Tier returns the user's current tier.
func (s *InMemoryStore) Tier(_ context.Context, userID string) (model.Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return model.TierFree, ErrUnknownUser
	}
	return p.Tier, nil
}

// ApplyFeedback folds one signal into both maps.
func (s *InMemoryStore) ApplyFeedback(_ context.Context, userID, venueID string, category model.Category, accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return ErrUnknownUser
	}

	vs := p.VenueSignal[venueID]
	cs := p.CategorySignal[category]
	if accepted {
		vs.Accepts++
		cs.Accepts++
	} else {
		vs.Declines++
		cs.Declines++
	}
	p.VenueSignal[venueID] = vs
	p.CategorySignal[category] = cs
	return nil
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
