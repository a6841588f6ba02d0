// Package types contains common types used across the application
package types

import "github.com/okian/rove/internal/domain/model"

// Recommendation is the wire shape of one ranked item.
type Recommendation struct {
	Rank      int             `json:"rank"`
	VenueID   string          `json:"venue_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Score     float64         `json:"score"`
	Rating    float64         `json:"rating"`
	Sponsored bool            `json:"sponsored"`
	Breakdown model.Breakdown `json:"breakdown"`
}

// FromCandidate converts a scored candidate into its wire shape.
func FromCandidate(rank int, c model.ScoredCandidate) Recommendation {
	return Recommendation{
		Rank:      rank,
		VenueID:   c.Venue.ID,
		Name:      c.Venue.Name,
		Category:  c.Venue.Category.String(),
		Score:     c.Score,
		Rating:    c.Venue.Rating,
		Sponsored: c.Venue.Sponsored,
		Breakdown: c.Breakdown,
	}
}
