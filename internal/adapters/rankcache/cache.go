// Package rankcache keeps each user's last served ranking so the
// engine can degrade gracefully during cooldowns and provider
// outages.
package rankcache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/okian/rove/internal/domain/model"
	"github.com/okian/rove/pkg/metrics"
)

// Default number of shards. Sharded to keep hot-path lock scopes
// small under concurrent per-user traffic.
const defaultShardCount = 8

// Store provides read/write access to last-known rankings.
type Store interface {
	// Put replaces the user's cached ranking.
	Put(ctx context.Context, userID string, items []model.ScoredCandidate, at time.Time)

	// Get returns the user's cached ranking, its serve time, and
	// whether one exists. The returned slice must not be mutated.
	Get(ctx context.Context, userID string) ([]model.ScoredCandidate, time.Time, bool)

	// Count returns the number of users with a cached ranking.
	Count(ctx context.Context) int
}

type cached struct {
	items []model.ScoredCandidate
	at    time.Time
}

type shard struct {
	mu    sync.RWMutex
	users map[string]cached
}

// ShardedStore implements Store over fnv-hashed shards.
type ShardedStore struct {
	shards []*shard
}

// Option applies a configuration option to the ShardedStore.
type Option func(*ShardedStore)

// WithShardCount sets the number of shards.
func WithShardCount(n int) Option {
	return func(s *ShardedStore) {
		if n > 0 {
			s.shards = make([]*shard, n)
		}
	}
}

// NewShardedStore creates a store with configuration options.
func NewShardedStore(opts ...Option) *ShardedStore {
	s := &ShardedStore{shards: make([]*shard, defaultShardCount)}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.shards {
		s.shards[i] = &shard{users: make(map[string]cached)}
	}
	metrics.UpdateRankCacheShards(len(s.shards))
	return s
}

func (s *ShardedStore) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Put replaces the user's cached ranking with a defensive copy.
func (s *ShardedStore) Put(_ context.Context, userID string, items []model.ScoredCandidate, at time.Time) {
	cp := make([]model.ScoredCandidate, len(items))
	copy(cp, items)

	sh := s.shardFor(userID)
	sh.mu.Lock()
	sh.users[userID] = cached{items: cp, at: at}
	sh.mu.Unlock()

	metrics.UpdateRankCacheUsers(s.Count(context.Background()))
}

// Get returns the user's cached ranking, if any.
func (s *ShardedStore) Get(_ context.Context, userID string) ([]model.ScoredCandidate, time.Time, bool) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	c, ok := sh.users[userID]
	if !ok {
		return nil, time.Time{}, false
	}
	return c.items, c.at, true
}

// Count returns the number of users with a cached ranking.
func (s *ShardedStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.users)
		sh.mu.RUnlock()
	}
	return total
}
