package venues

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/okian/rove/internal/domain/model"
	"github.com/okian/rove/pkg/metrics"
)

// Default guard parameters for the wrapped provider.
const (
	defaultFetchTimeout    = 3 * time.Second
	defaultRateLimit       = 50 // fetches per second across all users
	defaultRateBurst       = 10
	defaultBreakerTimeout  = 30 * time.Second
	defaultBreakerFailures = 5
)

// GuardedProvider wraps a Provider with a per-call timeout, a quota
// limiter, and a circuit breaker, and deduplicates results by venue
// id. Callers must not hold any per-user lock while calling it.
type GuardedProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker[[]model.Venue]
	limiter *rate.Limiter
	timeout time.Duration
}

// GuardOption applies a configuration option to the GuardedProvider.
type GuardOption func(*guardConfig)

type guardConfig struct {
	timeout         time.Duration
	rateLimit       rate.Limit
	rateBurst       int
	breakerTimeout  time.Duration
	breakerFailures uint32
}

// WithFetchTimeout sets the per-call timeout.
func WithFetchTimeout(d time.Duration) GuardOption {
	return func(c *guardConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit sets the sustained fetch rate and burst allowed
// against the collaborator.
func WithRateLimit(perSecond float64, burst int) GuardOption {
	return func(c *guardConfig) {
		if perSecond > 0 && burst > 0 {
			c.rateLimit = rate.Limit(perSecond)
			c.rateBurst = burst
		}
	}
}

// WithBreakerTimeout sets how long the breaker stays open after
// tripping.
func WithBreakerTimeout(d time.Duration) GuardOption {
	return func(c *guardConfig) {
		if d > 0 {
			c.breakerTimeout = d
		}
	}
}

// NewGuardedProvider wraps inner with the configured guards.
func NewGuardedProvider(inner Provider, opts ...GuardOption) *GuardedProvider {
	cfg := &guardConfig{
		timeout:         defaultFetchTimeout,
		rateLimit:       rate.Limit(defaultRateLimit),
		rateBurst:       defaultRateBurst,
		breakerTimeout:  defaultBreakerTimeout,
		breakerFailures: defaultBreakerFailures,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	breaker := gobreaker.NewCircuitBreaker[[]model.Venue](gobreaker.Settings{
		Name:    "venue-provider",
		Timeout: cfg.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.breakerFailures
		},
	})

	return &GuardedProvider{
		inner:   inner,
		breaker: breaker,
		limiter: rate.NewLimiter(cfg.rateLimit, cfg.rateBurst),
		timeout: cfg.timeout,
	}
}

// FetchNearby runs the wrapped fetch under the limiter and breaker.
func (g *GuardedProvider) FetchNearby(ctx context.Context, coord model.Coordinate, radiusKm float64, categories []model.Category) ([]model.Venue, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		metrics.RecordProviderError("rate_limited")
		return nil, WrapFetch(err)
	}

	fetched, err := g.breaker.Execute(func() ([]model.Venue, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.inner.FetchNearby(fetchCtx, coord, radiusKm, categories)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			metrics.RecordProviderError("breaker_open")
		} else {
			metrics.RecordProviderError("fetch_failed")
		}
		return nil, WrapFetch(err)
	}

	metrics.RecordProviderFetch(len(fetched))
	return dedupeByID(fetched), nil
}

// VenueByID forwards direct lookup when the wrapped provider supports
// it. Lookup is local in every known implementation, so it bypasses
// the breaker and limiter.
func (g *GuardedProvider) VenueByID(ctx context.Context, id string) (model.Venue, bool) {
	if lookup, ok := g.inner.(interface {
		VenueByID(ctx context.Context, id string) (model.Venue, bool)
	}); ok {
		return lookup.VenueByID(ctx, id)
	}
	return model.Venue{}, false
}

// dedupeByID keeps the last occurrence of each venue id, preserving
// first-seen order.
func dedupeByID(vs []model.Venue) []model.Venue {
	idx := make(map[string]int, len(vs))
	out := make([]model.Venue, 0, len(vs))
	for _, v := range vs {
		if v.ID == "" {
			continue
		}
		if i, ok := idx[v.ID]; ok {
			out[i] = v
			continue
		}
		idx[v.ID] = len(out)
		out = append(out, v)
	}
	return out
}
