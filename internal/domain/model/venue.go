package model

import "time"

// HourSpan is an open/close interval inside a single day, expressed
// as minutes since midnight. Close may be 1440 (end of day); a span
// crossing midnight is split into two weekday rows by the data source.
type HourSpan struct {
	OpenMin  int
	CloseMin int
}

// OpeningHours maps a weekday to its ordered, non-overlapping open spans.
// A missing or empty entry means closed all day.
type OpeningHours map[time.Weekday][]HourSpan

// Venue is a candidate activity location. Immutable once fetched
// within a session; refreshed wholesale by the candidate adapter.
type Venue struct {
	ID        string
	Name      string
	Category  Category
	Coord     Coordinate
	PriceTier int     // ordinal 0-3
	Rating    float64 // 0-5
	Hours     OpeningHours
	Sponsored bool
}

// OpenSpans returns the venue's open spans for the given weekday.
func (v Venue) OpenSpans(day time.Weekday) []HourSpan {
	if v.Hours == nil {
		return nil
	}
	return v.Hours[day]
}
