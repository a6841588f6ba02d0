package model

import "time"

// Tier is the subscription level, ordered free < plus < premium.
type Tier int

// Subscription tiers.
const (
	TierFree Tier = iota
	TierPlus
	TierPremium
)

// String returns the canonical lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierPlus:
		return "plus"
	case TierPremium:
		return "premium"
	default:
		return "free"
	}
}

// ParseTier maps a canonical name to a Tier. Unknown names fall back
// to TierFree, the most restrictive level.
func ParseTier(s string) Tier {
	switch s {
	case "plus":
		return TierPlus
	case "premium":
		return TierPremium
	default:
		return TierFree
	}
}

// Cooldown returns the minimum elapsed time between candidate
// refreshes for the tier. Premium users refresh without limit.
func (t Tier) Cooldown() time.Duration {
	switch t {
	case TierPremium:
		return 0
	case TierPlus:
		return time.Hour
	default:
		return 4 * time.Hour
	}
}

// FeedbackSignal accumulates a user's accept/decline history for one
// venue or one category. Positive values indicate acceptance.
type FeedbackSignal struct {
	Accepts  int
	Declines int
}

// Net returns accepts minus declines.
func (f FeedbackSignal) Net() int {
	return f.Accepts - f.Declines
}

// UserProfile carries everything the scorer needs about a user.
type UserProfile struct {
	UserID string

	// InterestWeights ranks categories 0-1; missing categories score
	// no interest component.
	InterestWeights map[Category]float64

	// PriceSensitivity 0-1; 1 means strongly prefers cheap venues.
	PriceSensitivity float64

	// MaxTravelKm bounds candidate distance; venues beyond it are
	// excluded upstream, not merely penalized.
	MaxTravelKm float64

	// VenueSignal and CategorySignal hold accumulated feedback.
	// An exact-venue decline dominates category-level signal.
	VenueSignal    map[string]FeedbackSignal
	CategorySignal map[Category]FeedbackSignal

	Tier Tier
}
