// Package diversity reorders a scored candidate list under
// category-balance and sponsored caps.
package diversity

import (
	"context"
	"math"
	"sort"

	"github.com/okian/rove/internal/domain/model"
)

// Default cap fractions of the final K.
const (
	defaultCategoryCapFrac  = 0.3
	defaultSponsoredCapFrac = 0.2
)

// Enforcer filters and reorders scored candidates. Greedy with a
// relaxed fallback pass; deliberately not an optimal solver.
type Enforcer struct {
	categoryCapFrac  float64
	sponsoredCapFrac float64
}

// NewEnforcer creates an enforcer with configuration options.
func NewEnforcer(opts ...Option) *Enforcer {
	e := &Enforcer{
		categoryCapFrac:  defaultCategoryCapFrac,
		sponsoredCapFrac: defaultSponsoredCapFrac,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enforce returns at most k candidates in score-descending order such
// that no category exceeds ceil(categoryCapFrac*k) items and sponsored
// items stay under ceil(sponsoredCapFrac*k).
//
// Candidates whose venue id is in alreadyShown are dropped outright;
// that exclusion is absolute and survives both passes. When the caps
// starve the output below k, a second pass refills remaining slots
// from the skipped candidates ignoring the category cap but still
// honoring the sponsored cap, so the feed is never under-filled purely
// by diversity rules.
func (e *Enforcer) Enforce(_ context.Context, scored []model.ScoredCandidate, alreadyShown map[string]struct{}, k int) []model.ScoredCandidate {
	if k <= 0 || len(scored) == 0 {
		return nil
	}

	pool := make([]model.ScoredCandidate, 0, len(scored))
	for _, c := range scored {
		if _, excluded := alreadyShown[c.Venue.ID]; excluded {
			continue
		}
		pool = append(pool, c)
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].Less(pool[j]) })

	categoryCap := int(math.Ceil(e.categoryCapFrac * float64(k)))
	sponsoredCap := int(math.Ceil(e.sponsoredCapFrac * float64(k)))

	out := make([]model.ScoredCandidate, 0, k)
	perCategory := make(map[model.Category]int)
	sponsored := 0
	var skipped []model.ScoredCandidate

	for _, c := range pool {
		if len(out) == k {
			break
		}
		if perCategory[c.Venue.Category] >= categoryCap {
			skipped = append(skipped, c)
			continue
		}
		if c.Venue.Sponsored && sponsored >= sponsoredCap {
			skipped = append(skipped, c)
			continue
		}
		out = append(out, c)
		perCategory[c.Venue.Category]++
		if c.Venue.Sponsored {
			sponsored++
		}
	}

	// Relaxed pass: category cap lifted, sponsored cap kept.
	for _, c := range skipped {
		if len(out) == k {
			break
		}
		if c.Venue.Sponsored && sponsored >= sponsoredCap {
			continue
		}
		out = append(out, c)
		if c.Venue.Sponsored {
			sponsored++
		}
	}

	// The relaxed pass appends in score order but after first-pass
	// picks; restore global score-descending order.
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
