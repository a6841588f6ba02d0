package schedule

import "time"

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithHorizonDays sets the planning horizon in days.
func WithHorizonDays(days int) Option {
	return func(s *Scheduler) {
		if days > 0 {
			s.horizonDays = days
		}
	}
}

// WithTravelBuffer sets the symmetric travel buffer reserved before
// and after a visit.
func WithTravelBuffer(buffer time.Duration) Option {
	return func(s *Scheduler) {
		if buffer >= 0 {
			s.travelBuffer = buffer
		}
	}
}

// WithRushWindows replaces the daily rush windows.
func WithRushWindows(windows []RushWindow) Option {
	return func(s *Scheduler) {
		s.rushWindows = windows
	}
}

// WithRushPenalty sets the score penalty for slots overlapping a rush
// window.
func WithRushPenalty(penalty float64) Option {
	return func(s *Scheduler) {
		if penalty >= 0 {
			s.rushPenalty = penalty
		}
	}
}

// WithAdjacencyWindow sets how close a slot must be to an existing
// event to earn the adjacency bonus.
func WithAdjacencyWindow(window time.Duration) Option {
	return func(s *Scheduler) {
		if window > 0 {
			s.adjacencyWindow = window
		}
	}
}
