// Package venues adapts the venue-data collaborator into the engine.
package venues

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/rove/internal/domain/model"
)

// Provider fetches venue candidates near a coordinate. The engine
// treats it as opaque: it may be a cached database, a live search, or
// both behind one interface.
type Provider interface {
	// FetchNearby returns venues within radiusKm of coord, optionally
	// filtered by category. An empty categories slice means all.
	FetchNearby(ctx context.Context, coord model.Coordinate, radiusKm float64, categories []model.Category) ([]model.Venue, error)
}

// StaticProvider serves a fixed in-memory dataset. Used by tests and
// the demo load generator.
type StaticProvider struct {
	mu     sync.RWMutex
	venues map[string]model.Venue
}

// NewStaticProvider creates a provider over the given dataset.
// Venues are deduplicated by id, last write wins.
func NewStaticProvider(dataset []model.Venue) *StaticProvider {
	p := &StaticProvider{venues: make(map[string]model.Venue, len(dataset))}
	for _, v := range dataset {
		if v.ID != "" {
			p.venues[v.ID] = v
		}
	}
	return p
}

// Add inserts or replaces venues in the dataset.
func (p *StaticProvider) Add(vs ...model.Venue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, v := range vs {
		if v.ID != "" {
			p.venues[v.ID] = v
		}
	}
}

// VenueByID resolves one venue directly.
func (p *StaticProvider) VenueByID(_ context.Context, id string) (model.Venue, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.venues[id]
	return v, ok
}

// FetchNearby filters the dataset by distance and category. Results
// are ordered by venue id for determinism.
func (p *StaticProvider) FetchNearby(ctx context.Context, coord model.Coordinate, radiusKm float64, categories []model.Category) ([]model.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wanted := make(map[model.Category]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []model.Venue
	for _, v := range p.venues {
		if radiusKm > 0 && coord.DistanceKm(v.Coord) > radiusKm {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[v.Category]; !ok {
				continue
			}
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
