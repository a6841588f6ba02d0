package model

// Breakdown retains the additive score components for explainability
// and for testing. The total score is their unweighted sum; weights
// are already folded into each component's scale.
type Breakdown struct {
	Interest  float64 `json:"interest"`  // 0-40
	Proximity float64 `json:"proximity"` // 0-25
	Daypart   float64 `json:"daypart"`   // 0-15
	Feedback  float64 `json:"feedback"`  // -20..20
	Freshness float64 `json:"freshness"` // 0-5
	Sponsored float64 `json:"sponsored"` // small fixed addend
}

// Total sums the components.
func (b Breakdown) Total() float64 {
	return b.Interest + b.Proximity + b.Daypart + b.Feedback + b.Freshness + b.Sponsored
}

// ScoredCandidate pairs a venue with its computed relevance score.
// Created fresh per ranking invocation; never persisted.
type ScoredCandidate struct {
	Venue     Venue
	Score     float64
	Breakdown Breakdown
}

// Less orders candidates for ranking: score desc, then rating desc,
// then venue id asc for determinism.
func (c ScoredCandidate) Less(other ScoredCandidate) bool {
	if c.Score != other.Score {
		return c.Score > other.Score
	}
	if c.Venue.Rating != other.Venue.Rating {
		return c.Venue.Rating > other.Venue.Rating
	}
	return c.Venue.ID < other.Venue.ID
}
