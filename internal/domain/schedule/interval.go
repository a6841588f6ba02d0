// Package schedule computes conflict-free time slots for accepted
// recommendations.
package schedule

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Empty reports whether the interval has no extent.
func (iv Interval) Empty() bool {
	return !iv.Start.Before(iv.End)
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Clamp restricts the interval to bounds, possibly producing an
// empty interval.
func (iv Interval) Clamp(bounds Interval) Interval {
	out := iv
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	return out
}

// MergeIntervals sorts and coalesces overlapping or touching
// intervals. Empty intervals are dropped.
func MergeIntervals(ivs []Interval) []Interval {
	in := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if !iv.Empty() {
			in = append(in, iv)
		}
	}
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool { return in[i].Start.Before(in[j].Start) })

	out := []Interval{in[0]}
	for _, iv := range in[1:] {
		last := &out[len(out)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Complement returns the gaps inside horizon not covered by busy.
// busy need not be sorted or disjoint.
func Complement(busy []Interval, horizon Interval) []Interval {
	if horizon.Empty() {
		return nil
	}
	merged := MergeIntervals(busy)

	var out []Interval
	cursor := horizon.Start
	for _, iv := range merged {
		clamped := iv.Clamp(horizon)
		if clamped.Empty() {
			continue
		}
		if cursor.Before(clamped.Start) {
			out = append(out, Interval{Start: cursor, End: clamped.Start})
		}
		if clamped.End.After(cursor) {
			cursor = clamped.End
		}
	}
	if cursor.Before(horizon.End) {
		out = append(out, Interval{Start: cursor, End: horizon.End})
	}
	return out
}

// Intersect returns the pairwise intersection of two sets of
// intervals. Both inputs must be sorted and disjoint, which holds for
// MergeIntervals/Complement output.
func Intersect(a, b []Interval) []Interval {
	var out []Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].Start
		if b[j].Start.After(start) {
			start = b[j].Start
		}
		end := a[i].End
		if b[j].End.Before(end) {
			end = b[j].End
		}
		if start.Before(end) {
			out = append(out, Interval{Start: start, End: end})
		}
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}
