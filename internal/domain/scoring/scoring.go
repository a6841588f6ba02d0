// Package scoring computes a venue's relevance score for one user.
package scoring

import (
	"context"
	"math"
	"time"

	"github.com/okian/rove/internal/domain/model"
)

// Component scales. The total score is the plain sum of components;
// each component's weight is folded into its own scale.
const (
	interestScale       = 40.0
	proximityScale      = 25.0
	daypartBonus        = 15.0
	feedbackCap         = 20.0
	defaultFeedbackStep = 4.0
	defaultFreshness    = 5.0
	defaultSponsored    = 3.0
)

// Option applies a configuration option to the EngineScorer.
type Option func(*EngineScorer)

// WithSponsoredBoost overrides the fixed sponsored addend. The addend
// is intentionally small; the guard against sponsored flooding is the
// enforcer's cap, not this number.
func WithSponsoredBoost(boost float64) Option {
	return func(s *EngineScorer) {
		if boost >= 0 {
			s.sponsoredBoost = boost
		}
	}
}

// WithFreshnessBonus overrides the bonus for venues absent from the
// recently-shown set.
func WithFreshnessBonus(bonus float64) Option {
	return func(s *EngineScorer) {
		if bonus >= 0 {
			s.freshnessBonus = bonus
		}
	}
}

// WithFeedbackStep overrides the per-signal step of the historical
// feedback component. The component stays clamped to +/-20.
func WithFeedbackStep(step float64) Option {
	return func(s *EngineScorer) {
		if step > 0 {
			s.feedbackStep = step
		}
	}
}

// Input bundles everything one scoring call reads. RecentlyShown is
// supplied by the caller; the scorer holds no per-user state.
type Input struct {
	Venue         model.Venue
	Profile       model.UserProfile
	UserLocation  model.Coordinate
	Now           time.Time
	RecentlyShown map[string]struct{}
}

// Scorer computes a score for a candidate venue. Implementations must
// be deterministic for identical inputs.
type Scorer interface {
	// Score is pure: no I/O, no hidden state. The context parameter
	// follows the project-wide convention and is unused here.
	Score(ctx context.Context, in Input) model.ScoredCandidate
}

// EngineScorer implements Scorer as a sum of independently-capped
// components.
type EngineScorer struct {
	sponsoredBoost float64
	freshnessBonus float64
	feedbackStep   float64
}

// NewEngineScorer creates a scorer with configuration options.
func NewEngineScorer(opts ...Option) *EngineScorer {
	s := &EngineScorer{
		sponsoredBoost: defaultSponsored,
		freshnessBonus: defaultFreshness,
		feedbackStep:   defaultFeedbackStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the candidate's score and breakdown.
func (s *EngineScorer) Score(_ context.Context, in Input) model.ScoredCandidate {
	b := model.Breakdown{
		Interest:  s.interest(in),
		Proximity: s.proximity(in),
		Daypart:   s.daypartFit(in),
		Feedback:  s.feedback(in),
		Freshness: s.freshness(in),
	}
	if in.Venue.Sponsored {
		b.Sponsored = s.sponsoredBoost
	}
	return model.ScoredCandidate{
		Venue:     in.Venue,
		Score:     b.Total(),
		Breakdown: b,
	}
}

// interest scales the profile's category weight to 0-40.
func (s *EngineScorer) interest(in Input) float64 {
	w := in.Profile.InterestWeights[in.Venue.Category]
	return clamp(w, 0, 1) * interestScale
}

// proximity scales inverse distance to 0-25 with linear falloff at
// the profile's travel limit. Candidates beyond the limit are
// excluded upstream; a zero here is only a safety net.
func (s *EngineScorer) proximity(in Input) float64 {
	maxKm := in.Profile.MaxTravelKm
	if maxKm <= 0 {
		return 0
	}
	dist := in.UserLocation.DistanceKm(in.Venue.Coord)
	if dist >= maxKm {
		return 0
	}
	return (1 - dist/maxKm) * proximityScale
}

// daypartFit grants the full bonus when the venue's canonical daypart
// matches the current hour.
func (s *EngineScorer) daypartFit(in Input) float64 {
	pref := in.Venue.Category.PreferredDaypart()
	if pref == model.DaypartNone {
		return 0
	}
	if model.DaypartOf(in.Now) == pref {
		return daypartBonus
	}
	return 0
}

// feedback converts accumulated accept/decline signal into a +/-20
// adjustment. Exact-venue signal, when present, dominates the
// category-level signal entirely.
func (s *EngineScorer) feedback(in Input) float64 {
	if sig, ok := in.Profile.VenueSignal[in.Venue.ID]; ok && (sig.Accepts > 0 || sig.Declines > 0) {
		return clamp(float64(sig.Net())*s.feedbackStep, -feedbackCap, feedbackCap)
	}
	if sig, ok := in.Profile.CategorySignal[in.Venue.Category]; ok {
		return clamp(float64(sig.Net())*s.feedbackStep, -feedbackCap, feedbackCap)
	}
	return 0
}

// freshness grants the full bonus when the venue was not shown to the
// user within the caller's recency window. Binary on purpose: the
// recency window is the knob, not a decay curve.
func (s *EngineScorer) freshness(in Input) float64 {
	if in.RecentlyShown == nil {
		return s.freshnessBonus
	}
	if _, shown := in.RecentlyShown[in.Venue.ID]; shown {
		return 0
	}
	return s.freshnessBonus
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
