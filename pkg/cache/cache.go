package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Options configures a Store.
type Options struct {
	// DefaultTTL applies when Set or GetOrSet is called with a zero TTL.
	DefaultTTL time.Duration

	// SweepInterval is how often the background sweep evicts expired
	// entries. Zero disables the sweep; expired entries are then only
	// evicted lazily on read or via ClearExpired.
	SweepInterval time.Duration

	// Clock overrides the time source. Tests use this to simulate expiry.
	Clock func() time.Time
}

// MetricsHooks receives cache events for observability wiring.
type MetricsHooks struct {
	OnHit   func(key string)
	OnMiss  func(key string)
	OnStore func(key string)
	OnEvict func(key string)
}

// Entry is a point-in-time view of a stored record.
type Entry[V any] struct {
	Key            string
	Value          V
	CreatedAt      time.Time
	TTL            time.Duration
	HitCount       int64
	LastAccessedAt time.Time
}

// Stats is a derived snapshot of store state. It is computed on demand and
// never stored, so it cannot drift from the entries themselves.
type Stats struct {
	Entries   int           `json:"entries"`
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	HitRate   float64       `json:"hit_rate"`
	OldestAge time.Duration `json:"oldest_age"`
	NewestAge time.Duration `json:"newest_age"`
}

type record[V any] struct {
	value          V
	createdAt      time.Time
	ttl            time.Duration
	hitCount       int64
	lastAccessedAt time.Time
}

// Store is an in-memory key/value cache with per-entry TTLs, hit/miss
// accounting and a background expiry sweep. All operations are safe for
// concurrent use; a single mutex guards the map, which is sufficient since
// staleness is short-lived and GetOrSet tolerates redundant recomputation.
type Store[V any] struct {
	mu     sync.RWMutex
	items  map[string]*record[V]
	hits   int64
	misses int64

	opts  Options
	hooks MetricsHooks
	sf    singleflight.Group

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a Store and, when SweepInterval is set, starts its background
// sweep. Callers own the returned store's lifecycle and should Close it on
// shutdown to stop the sweeper.
func New[V any](opts Options, hooks MetricsHooks) *Store[V] {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	s := &Store[V]{
		items: make(map[string]*record[V]),
		opts:  opts,
		hooks: hooks,
		stop:  make(chan struct{}),
	}
	if opts.SweepInterval > 0 {
		go s.sweepLoop()
	}
	return s
}

func (s *Store[V]) sweepLoop() {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.ClearExpired()
		case <-s.stop:
			return
		}
	}
}

// Close stops the background sweep. Safe to call multiple times.
func (s *Store[V]) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store[V]) expired(e *record[V], now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Get returns the value for key. Expired entries are evicted on read and
// reported as misses. A hit bumps the entry's hit count and last-access
// time; every call updates the aggregate hit/miss counters.
func (s *Store[V]) Get(key string) (V, bool) {
	now := s.opts.Clock()

	s.mu.Lock()
	e, ok := s.items[key]
	evicted := false
	if ok && s.expired(e, now) {
		delete(s.items, key)
		ok = false
		evicted = true
	}
	if !ok {
		s.misses++
		s.mu.Unlock()
		if evicted && s.hooks.OnEvict != nil {
			s.hooks.OnEvict(key)
		}
		if s.hooks.OnMiss != nil {
			s.hooks.OnMiss(key)
		}
		var zero V
		return zero, false
	}
	e.hitCount++
	e.lastAccessedAt = now
	s.hits++
	value := e.value
	s.mu.Unlock()

	if s.hooks.OnHit != nil {
		s.hooks.OnHit(key)
	}
	return value, true
}

// Set inserts or overwrites key. Overwriting resets the entry's creation
// time and hit count. A zero ttl falls back to Options.DefaultTTL.
func (s *Store[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.opts.DefaultTTL
	}
	now := s.opts.Clock()

	s.mu.Lock()
	s.items[key] = &record[V]{
		value:          value,
		createdAt:      now,
		ttl:            ttl,
		lastAccessedAt: now,
	}
	s.mu.Unlock()

	if s.hooks.OnStore != nil {
		s.hooks.OnStore(key)
	}
}

// Has reports whether key holds a live entry. Unlike Get it touches neither
// the hit/miss counters nor the entry's access bookkeeping.
func (s *Store[V]) Has(key string) bool {
	now := s.opts.Clock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[key]
	return ok && !s.expired(e, now)
}

// Delete removes key, reporting whether an entry was present.
func (s *Store[V]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	return true
}

// Clear removes all entries and resets the aggregate counters.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	s.items = make(map[string]*record[V])
	s.hits = 0
	s.misses = 0
	s.mu.Unlock()
}

// ClearExpired eagerly evicts every entry whose age exceeds its TTL and
// returns the number evicted. The background sweep calls this on its
// interval; it is also available for manual invocation.
func (s *Store[V]) ClearExpired() int {
	now := s.opts.Clock()
	var evicted []string

	s.mu.Lock()
	for key, e := range s.items {
		if s.expired(e, now) {
			delete(s.items, key)
			evicted = append(evicted, key)
		}
	}
	s.mu.Unlock()

	if s.hooks.OnEvict != nil {
		for _, key := range evicted {
			s.hooks.OnEvict(key)
		}
	}
	return len(evicted)
}

// GetOrSet returns the cached value for key, or computes, stores and
// returns it on a miss. Concurrent misses for the same key are coalesced
// through singleflight; the contract only requires at-most-one compute per
// call, so the coalescing is a strengthening, not a dependency. Compute
// errors are returned without storing anything.
func (s *Store[V]) GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (V, error)) (V, error) {
	if value, ok := s.Get(key); ok {
		return value, nil
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	value, ok := result.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("cache: unexpected value type %T for key %q", result, key)
	}
	return value, nil
}

// Stats returns a point-in-time snapshot computed from current entries and
// the cumulative counters.
func (s *Store[V]) Stats() Stats {
	now := s.opts.Clock()
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Entries: len(s.items),
		Hits:    s.hits,
		Misses:  s.misses,
	}
	if total := s.hits + s.misses; total > 0 {
		st.HitRate = float64(s.hits) / float64(total)
	}
	first := true
	for _, e := range s.items {
		age := now.Sub(e.createdAt)
		if first {
			st.OldestAge = age
			st.NewestAge = age
			first = false
			continue
		}
		if age > st.OldestAge {
			st.OldestAge = age
		}
		if age < st.NewestAge {
			st.NewestAge = age
		}
	}
	return st
}

// Snapshot returns copies of all live entries for debugging/inspection.
func (s *Store[V]) Snapshot() []Entry[V] {
	now := s.opts.Clock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry[V], 0, len(s.items))
	for key, e := range s.items {
		if s.expired(e, now) {
			continue
		}
		out = append(out, Entry[V]{
			Key:            key,
			Value:          e.value,
			CreatedAt:      e.createdAt,
			TTL:            e.ttl,
			HitCount:       e.hitCount,
			LastAccessedAt: e.lastAccessedAt,
		})
	}
	return out
}
