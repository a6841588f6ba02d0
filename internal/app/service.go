// Package app provides the core business service that implements
// the dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rove/internal/adapters/calendar"
	eventqueue "github.com/okian/rove/internal/adapters/mq/queue"
	workerpool "github.com/okian/rove/internal/adapters/mq/worker"
	"github.com/okian/rove/internal/adapters/profiles"
	"github.com/okian/rove/internal/adapters/rankcache"
	"github.com/okian/rove/internal/adapters/venues"
	"github.com/okian/rove/internal/domain/diversity"
	"github.com/okian/rove/internal/domain/model"
	"github.com/okian/rove/internal/domain/refresh"
	"github.com/okian/rove/internal/domain/schedule"
	"github.com/okian/rove/internal/domain/scoring"
	"github.com/okian/rove/internal/domain/seen"
	"github.com/okian/rove/pkg/logger"
	"github.com/okian/rove/pkg/metrics"
)

// venueLookup is the optional direct-lookup capability a provider may
// offer beyond FetchNearby.
type venueLookup interface {
	VenueByID(ctx context.Context, id string) (model.Venue, bool)
}

// Service wires the ranking pipeline, the refresh gate, the scheduler
// and the feedback pipeline behind the operations the API exposes.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	provider venues.Provider
	calendar calendar.Store
	profiles profiles.Store

	// Core components
	scorer    scoring.Scorer
	enforcer  *diversity.Enforcer
	gate      refresh.Gate
	scheduler *schedule.Scheduler
	tracker   seen.Tracker
	deduper   seen.Deduper
	cache     rankcache.Store
	queue     eventqueue.Queue
	pool      *workerpool.Pool

	// Configuration
	searchRadiusKm   float64
	seenWindow       int
	queueSize        int
	workerCount      int
	dedupeSize       int
	shardCount       int
	scoringOpts      []scoring.Option
	diversityOpts    []diversity.Option
	schedulerOpts    []schedule.Option
	clock            func() time.Time

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the venue data provider.
func WithProvider(p venues.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithCalendarStore sets the calendar collaborator.
func WithCalendarStore(c calendar.Store) Option {
	return func(s *Service) {
		if c != nil {
			s.calendar = c
		}
	}
}

// WithProfileStore sets the profile/tier/feedback collaborator.
func WithProfileStore(p profiles.Store) Option {
	return func(s *Service) {
		if p != nil {
			s.profiles = p
		}
	}
}

// WithSearchRadiusKm sets the default provider query radius.
func WithSearchRadiusKm(km float64) Option {
	return func(s *Service) {
		if km > 0 {
			s.searchRadiusKm = km
		}
	}
}

// WithSeenWindow sets the per-user recently-shown window size.
func WithSeenWindow(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.seenWindow = size
		}
	}
}

// WithQueueSize sets the feedback queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of feedback apply workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDedupeSize sets the feedback idempotency cache bound.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the rank cache shard count.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithScoringOptions forwards options to the scorer.
func WithScoringOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, opts...)
	}
}

// WithDiversityOptions forwards options to the enforcer.
func WithDiversityOptions(opts ...diversity.Option) Option {
	return func(s *Service) {
		s.diversityOpts = append(s.diversityOpts, opts...)
	}
}

// WithSchedulerOptions forwards options to the scheduler.
func WithSchedulerOptions(opts ...schedule.Option) Option {
	return func(s *Service) {
		s.schedulerOpts = append(s.schedulerOpts, opts...)
	}
}

// WithClock overrides the time source. Tests pin it for deterministic
// gate and scheduler behavior.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		searchRadiusKm: 20,
		seenWindow:     50,
		queueSize:      10_000,
		workerCount:    0, // pool picks a CPU multiple
		dedupeSize:     50_000,
		shardCount:     8,
		clock:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.provider == nil {
		s.provider = venues.NewStaticProvider(nil)
	}
	if s.calendar == nil {
		s.calendar = calendar.NewInMemoryStore()
	}
	if s.profiles == nil {
		s.profiles = profiles.NewInMemoryStore()
	}

	s.scorer = scoring.NewEngineScorer(s.scoringOpts...)
	s.enforcer = diversity.NewEnforcer(s.diversityOpts...)
	s.gate = refresh.NewInMemoryGate()
	s.scheduler = schedule.NewScheduler(s.schedulerOpts...)
	s.tracker = seen.NewInMemoryTracker(seen.WithWindowSize(s.seenWindow))
	s.deduper = seen.NewInMemoryDeduper(s.dedupeSize)
	s.cache = rankcache.NewShardedStore(rankcache.WithShardCount(s.shardCount))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.profiles, s.tracker)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.Float64("searchRadiusKm", s.searchRadiusKm),
		logger.Int("seenWindow", s.seenWindow),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping recommendation service...")

	if q, ok := s.queue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "recommendation service stopped")
}

// Recommendations serves the user's ranked venue list. servedFromCache
// reports whether the list is the stored last-known ranking rather
// than a fresh fetch (cooldown, provider outage, or a lost refresh
// race).
func (s *Service) Recommendations(ctx context.Context, userID string, coord model.Coordinate, k int) ([]model.ScoredCandidate, bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if k < 1 {
		return nil, false, fmt.Errorf("%w: k must be positive", ErrBadInput)
	}
	if !coord.Valid() {
		return nil, false, fmt.Errorf("%w: coordinate out of range", ErrBadInput)
	}
	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrBadInput, err)
	}

	now := s.clock()
	if st := s.gate.Check(ctx, userID, profile.Tier, now); !st.Eligible {
		metrics.RecordRefreshDenied()
		items, _, _ := s.cache.Get(ctx, userID)
		metrics.RecordRecommendationServed(true)
		return capK(items, k), true, nil
	}

	radius := s.searchRadiusKm
	if profile.MaxTravelKm > 0 && profile.MaxTravelKm < radius {
		radius = profile.MaxTravelKm
	}
	fetched, err := s.provider.FetchNearby(ctx, coord, radius, interestedCategories(profile))
	if err != nil {
		// No cooldown is recorded for a failed fetch; degrade to the
		// last-known ranking when one exists.
		s.logger.Warn(ctx, "venue fetch failed",
			logger.String("userID", userID),
			logger.Error(err),
		)
		if items, _, ok := s.cache.Get(ctx, userID); ok {
			metrics.RecordRecommendationServed(true)
			return capK(items, k), true, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		}
		return nil, false, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	recently := s.tracker.RecentlyShown(ctx, userID)
	declined := s.tracker.Declined(ctx, userID)

	scored := make([]model.ScoredCandidate, 0, len(fetched))
	for _, v := range fetched {
		if profile.MaxTravelKm > 0 && coord.DistanceKm(v.Coord) > profile.MaxTravelKm {
			continue // beyond travel distance: excluded, not penalized
		}
		scored = append(scored, s.scorer.Score(ctx, scoring.Input{
			Venue:         v,
			Profile:       profile,
			UserLocation:  coord,
			Now:           now,
			RecentlyShown: recently,
		}))
	}

	ranked := s.enforcer.Enforce(ctx, scored, declined, k)

	if !s.gate.Commit(ctx, userID, profile.Tier, now) {
		// A concurrent refresh won; its ranking is the one to serve.
		metrics.RecordRefreshRaceLost()
		if items, _, ok := s.cache.Get(ctx, userID); ok {
			metrics.RecordRecommendationServed(true)
			return capK(items, k), true, nil
		}
		return ranked, true, nil
	}
	metrics.RecordRefreshCommitted()

	s.cache.Put(ctx, userID, ranked, now)
	ids := make([]string, len(ranked))
	for i, c := range ranked {
		ids[i] = c.Venue.ID
	}
	s.tracker.MarkShown(ctx, userID, ids...)

	metrics.RecordRecommendationServed(false)
	return ranked, false, nil
}

// CheckRefresh reports whether the user may refresh now and, if not,
// how long to wait.
func (s *Service) CheckRefresh(ctx context.Context, userID string) (refresh.Status, error) {
	tier, err := s.profiles.Tier(ctx, userID)
	if err != nil {
		return refresh.Status{}, fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	return s.gate.Check(ctx, userID, tier, s.clock()), nil
}

// ProposeSchedule computes a non-conflicting visit window for a venue
// from the user's feed. preferred overrides the category's typical
// visit duration when positive.
func (s *Service) ProposeSchedule(ctx context.Context, userID, venueID string, preferred time.Duration) (model.ScheduleProposal, error) {
	if _, err := s.profiles.Profile(ctx, userID); err != nil {
		return model.ScheduleProposal{}, fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	venue, ok := s.venueByID(ctx, userID, venueID)
	if !ok {
		return model.ScheduleProposal{}, fmt.Errorf("%w: %s", ErrUnknownVenue, venueID)
	}

	now := s.clock()
	events, err := s.calendar.ListEvents(ctx, userID, now, now.AddDate(0, 0, 7))
	if err != nil {
		return model.ScheduleProposal{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	proposal := s.scheduler.Schedule(ctx, venue, events, now, preferred)
	switch {
	case proposal.Conflict:
		metrics.RecordScheduleProposal("conflict")
	case proposal.TightSchedule:
		proposal.ID = uuid.NewString()
		metrics.RecordScheduleProposal("tight")
	default:
		proposal.ID = uuid.NewString()
		metrics.RecordScheduleProposal("scheduled")
	}
	return proposal, nil
}

// ConfirmSchedule persists a user-confirmed proposal through the
// calendar collaborator and returns the new event id.
func (s *Service) ConfirmSchedule(ctx context.Context, userID string, proposal model.ScheduleProposal) (string, error) {
	if proposal.Conflict || proposal.Start.IsZero() {
		return "", fmt.Errorf("%w: proposal has no time window", ErrBadInput)
	}
	id, err := s.calendar.CreateEvent(ctx, userID, proposal)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidProposal) {
			return "", fmt.Errorf("%w: %w", ErrBadInput, err)
		}
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return id, nil
}

// ValidateTime reports whether [start, end) collides with the user's
// calendar. Used to warn on manual overrides.
func (s *Service) ValidateTime(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, fmt.Errorf("%w: start must precede end", ErrBadInput)
	}
	if _, err := s.profiles.Profile(ctx, userID); err != nil {
		return false, fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	events, err := s.calendar.ListEvents(ctx, userID, start, end)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	conflict := s.scheduler.Validate(ctx, start, end, events)
	metrics.RecordValidateCheck(conflict)
	return conflict, nil
}

// SeenAndRecord atomically checks if a feedback event id was seen and
// records it if not. Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seenBefore := s.deduper.SeenAndRecord(ctx, id)
	if seenBefore {
		metrics.RecordFeedbackDuplicate()
	}
	return seenBefore
}

// Unrecord removes a feedback event id, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// EnqueueFeedback submits a feedback event for asynchronous
// application. Returns false on backpressure.
func (s *Service) EnqueueFeedback(ctx context.Context, e model.FeedbackEvent) bool {
	return s.queue.Enqueue(ctx, e)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"seenWindow":  s.seenWindow,
		"queueSize":   s.queueSize,
		"shardCount":  s.shardCount,
		"workerCount": s.workerCount,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["cachedUsers"] = s.cache.Count(ctx)
		stats["dedupeSize"] = s.deduper.Size()
	}
	return stats
}

// venueByID resolves a venue from the user's cached feed first, then
// from the provider when it supports direct lookup.
func (s *Service) venueByID(ctx context.Context, userID, venueID string) (model.Venue, bool) {
	if items, _, ok := s.cache.Get(ctx, userID); ok {
		for _, c := range items {
			if c.Venue.ID == venueID {
				return c.Venue, true
			}
		}
	}
	if lookup, ok := s.provider.(venueLookup); ok {
		return lookup.VenueByID(ctx, venueID)
	}
	return model.Venue{}, false
}

// interestedCategories narrows the provider query to categories the
// profile weights positively. Empty means no narrowing.
func interestedCategories(p model.UserProfile) []model.Category {
	if len(p.InterestWeights) == 0 {
		return nil
	}
	out := make([]model.Category, 0, len(p.InterestWeights))
	for c, w := range p.InterestWeights {
		if w > 0 {
			out = append(out, c)
		}
	}
	if len(out) == len(model.Categories()) {
		return nil
	}
	return out
}

func capK(items []model.ScoredCandidate, k int) []model.ScoredCandidate {
	if len(items) <= k {
		return items
	}
	return items[:k]
}
