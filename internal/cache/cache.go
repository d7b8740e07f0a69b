// Package cache puts optimistic-refresh semantics in front of a
// store.Store: list results are cached under a single key, concurrent
// readers share one in-flight fetch, and any successful mutation
// invalidates the cached list so the next read hits the backend. Cache
// invalidation is the sole consistency mechanism; there is no per-record
// patching of cached state.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"satwatch/internal/domain"
	"satwatch/internal/metrics"
	"satwatch/internal/notify"
	"satwatch/internal/store"
)

// DefaultTTL is the freshness window for a cached list.
const DefaultTTL = 30 * time.Second

// listKey is the one cache key; the whole collection is the cache unit.
const listKey = "locations"

type Store struct {
	backend  store.Store
	notifier *notify.Center
	ttl      time.Duration
	now      func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	cached    []domain.Location
	fetchedAt time.Time
	valid     bool
	// generation guards against an in-flight fetch that started before an
	// invalidation repopulating the cache with stale data.
	generation uint64
}

type Option func(*Store)

// WithNotifier wires mutation-success banners.
func WithNotifier(n *notify.Center) Option {
	return func(s *Store) { s.notifier = n }
}

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(backend store.Store, opts ...Option) *Store {
	s := &Store{backend: backend, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the cached collection when fresh, otherwise fetches from the
// backend. Concurrent callers that miss the cache share a single backend
// read.
func (s *Store) List(ctx context.Context) ([]domain.Location, error) {
	s.mu.Lock()
	if s.valid && s.now().Sub(s.fetchedAt) < s.ttl {
		out := copyLocations(s.cached)
		s.mu.Unlock()
		metrics.CacheHits.Inc()
		return out, nil
	}
	generation := s.generation
	s.mu.Unlock()

	metrics.CacheMisses.Inc()
	v, err, _ := s.group.Do(listKey, func() (any, error) {
		locations, err := s.backend.List(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if s.generation == generation {
			s.cached = copyLocations(locations)
			s.fetchedAt = s.now()
			s.valid = true
		}
		s.mu.Unlock()
		return locations, nil
	})
	if err != nil {
		metrics.StoreOps.WithLabelValues("list", "error").Inc()
		return nil, err
	}
	metrics.StoreOps.WithLabelValues("list", "ok").Inc()
	return v.([]domain.Location), nil
}

// Save writes through to the backend. On success the cached list is
// invalidated and a success banner published; on failure the cache is left
// untouched.
func (s *Store) Save(ctx context.Context, loc domain.Location) error {
	if err := s.backend.Save(ctx, loc); err != nil {
		metrics.StoreOps.WithLabelValues("save", "error").Inc()
		return err
	}
	metrics.StoreOps.WithLabelValues("save", "ok").Inc()
	s.Invalidate()
	s.notifier.Success("Location saved successfully!")
	return nil
}

// Delete removes by id through the backend, with the same invalidation and
// banner behavior as Save.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		metrics.StoreOps.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.StoreOps.WithLabelValues("delete", "ok").Inc()
	s.Invalidate()
	s.notifier.Success("Location deleted successfully!")
	return nil
}

// Invalidate marks the cached list stale so the next List re-fetches.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.cached = nil
	s.generation++
	s.mu.Unlock()
}

func copyLocations(in []domain.Location) []domain.Location {
	out := make([]domain.Location, len(in))
	copy(out, in)
	return out
}
