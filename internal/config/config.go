// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxRecommendations caps GET /recommendations?k.
	MaxRecommendations int `koanf:"max_recommendations"`

	// SearchRadiusKm bounds the venue provider query.
	SearchRadiusKm float64 `koanf:"search_radius_km"`

	// SeenWindow sizes the per-user recently-shown window feeding the
	// freshness bonus.
	SeenWindow int `koanf:"seen_window"`

	// CategoryCapFrac and SponsoredCapFrac are the diversity caps as
	// fractions of the final K.
	CategoryCapFrac  float64 `koanf:"category_cap_frac"`
	SponsoredCapFrac float64 `koanf:"sponsored_cap_frac"`

	// SponsoredBoost and FreshnessBonus tune the scoring components.
	SponsoredBoost float64 `koanf:"sponsored_boost"`
	FreshnessBonus float64 `koanf:"freshness_bonus"`

	// HorizonDays, TravelBufferMin and RushWindows tune the scheduler.
	// Rush windows are "HH:MM-HH:MM" daily spans.
	HorizonDays     int      `koanf:"horizon_days"`
	TravelBufferMin int      `koanf:"travel_buffer_min"`
	RushWindows     []string `koanf:"rush_windows"`

	// FeedbackQueueSize bounds the in-memory feedback queue.
	FeedbackQueueSize int `koanf:"feedback_queue_size"`

	// WorkerCount sets the number of feedback apply workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the feedback event-id idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the rank cache shards.
	ShardCount int `koanf:"shard_count"`

	// FetchTimeoutMS, ProviderRate and ProviderBurst guard the venue
	// provider collaborator.
	FetchTimeoutMS int     `koanf:"fetch_timeout_ms"`
	ProviderRate   float64 `koanf:"provider_rate"`
	ProviderBurst  int     `koanf:"provider_burst"`
}

// New builds a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		MaxRecommendations: 50,
		SearchRadiusKm:     20,
		SeenWindow:         50,
		CategoryCapFrac:    0.3,
		SponsoredCapFrac:   0.2,
		SponsoredBoost:     3,
		FreshnessBonus:     5,
		HorizonDays:        7,
		TravelBufferMin:    15,
		RushWindows:        []string{"08:00-09:00", "17:00-18:00"},
		FeedbackQueueSize:  10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		DedupeSize:         50_000,
		ShardCount:         8,
		FetchTimeoutMS:     3000,
		ProviderRate:       50,
		ProviderBurst:      10,
	}
}
