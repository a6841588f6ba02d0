// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of venue categories the engine ranks.
type Category int

// Venue categories.
const (
	CategoryUnknown Category = iota
	CategoryCafe
	CategoryRestaurant
	CategoryBar
	CategoryMuseum
	CategoryPark
	CategoryFitness
	CategoryCinema
	CategoryShopping
)

// Categories lists every known category, excluding CategoryUnknown.
func Categories() []Category {
	return []Category{
		CategoryCafe,
		CategoryRestaurant,
		CategoryBar,
		CategoryMuseum,
		CategoryPark,
		CategoryFitness,
		CategoryCinema,
		CategoryShopping,
	}
}

// String returns the canonical lowercase name of the category.
func (c Category) String() string {
	switch c {
	case CategoryCafe:
		return "cafe"
	case CategoryRestaurant:
		return "restaurant"
	case CategoryBar:
		return "bar"
	case CategoryMuseum:
		return "museum"
	case CategoryPark:
		return "park"
	case CategoryFitness:
		return "fitness"
	case CategoryCinema:
		return "cinema"
	case CategoryShopping:
		return "shopping"
	default:
		return "unknown"
	}
}

// ParseCategory maps a canonical name to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cafe":
		return CategoryCafe, nil
	case "restaurant":
		return CategoryRestaurant, nil
	case "bar":
		return CategoryBar, nil
	case "museum":
		return CategoryMuseum, nil
	case "park":
		return CategoryPark, nil
	case "fitness":
		return CategoryFitness, nil
	case "cinema":
		return CategoryCinema, nil
	case "shopping":
		return CategoryShopping, nil
	default:
		return CategoryUnknown, fmt.Errorf("unknown category: %q", s)
	}
}

// Daypart is a canonical time-of-day bucket used for time-fit scoring.
type Daypart int

// Dayparts.
const (
	DaypartNone Daypart = iota
	DaypartMorning
	DaypartAfternoon
	DaypartEvening
)

// Daypart hour boundaries (local time, half-open).
const (
	morningStartHour   = 6
	afternoonStartHour = 12
	eveningStartHour   = 17
	eveningEndHour     = 23
)

// String returns a human-readable name for the daypart.
func (d Daypart) String() string {
	switch d {
	case DaypartMorning:
		return "morning"
	case DaypartAfternoon:
		return "afternoon"
	case DaypartEvening:
		return "evening"
	default:
		return "none"
	}
}

// DaypartOf buckets an instant into its daypart. Hours outside all
// buckets (late night) map to DaypartNone.
func DaypartOf(t time.Time) Daypart {
	h := t.Hour()
	switch {
	case h >= morningStartHour && h < afternoonStartHour:
		return DaypartMorning
	case h >= afternoonStartHour && h < eveningStartHour:
		return DaypartAfternoon
	case h >= eveningStartHour && h < eveningEndHour:
		return DaypartEvening
	default:
		return DaypartNone
	}
}

// PreferredDaypart returns the canonical daypart for the category,
// or DaypartNone when the category has no strong time-of-day fit.
func (c Category) PreferredDaypart() Daypart {
	switch c {
	case CategoryCafe, CategoryPark, CategoryFitness:
		return DaypartMorning
	case CategoryMuseum, CategoryShopping:
		return DaypartAfternoon
	case CategoryRestaurant, CategoryBar, CategoryCinema:
		return DaypartEvening
	default:
		return DaypartNone
	}
}

// TypicalVisit returns the typical visit duration for the category.
func (c Category) TypicalVisit() time.Duration {
	switch c {
	case CategoryCafe:
		return 60 * time.Minute
	case CategoryRestaurant:
		return 120 * time.Minute
	case CategoryBar:
		return 90 * time.Minute
	case CategoryMuseum:
		return 180 * time.Minute
	case CategoryPark:
		return 90 * time.Minute
	case CategoryFitness:
		return 75 * time.Minute
	case CategoryCinema:
		return 150 * time.Minute
	case CategoryShopping:
		return 120 * time.Minute
	default:
		return 60 * time.Minute
	}
}
