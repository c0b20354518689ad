// Package pipecache implements a fixed-capacity least-recently-used cache of
// NLP pipeline handles. The eviction order is explicit: entries are kept in a
// small recency-ordered slice (front = most recently used) so the policy is
// visible rather than hidden behind a memoization helper.
package pipecache

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is the number of resident pipelines when none is configured.
const DefaultCapacity = 2

// Constructor builds a pipeline handle for a model key. Construction is
// expensive; failures are never cached and will be retried on the next Get.
type Constructor[V any] func(ctx context.Context, key string) (V, error)

type entry[V any] struct {
	key   string
	value V
}

// Cache is a bounded LRU cache safe for concurrent use. Concurrent misses on
// the same key are coalesced into a single construction.
type Cache[V any] struct {
	construct  Constructor[V]
	capacity   int
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger

	group singleflight.Group

	mu      sync.Mutex
	entries []entry[V] // recency order, most recent first
}

// New creates a cache. capacity <= 0 selects DefaultCapacity.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"evict"),
// passed explicitly; it may be nil.
func New[V any](
	construct Constructor[V],
	capacity int,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[V]{
		construct:  construct,
		capacity:   capacity,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the resident handle for key, marking it most recently used, or
// constructs one. Inserting into a full cache silently discards the least
// recently used handle. Construction errors propagate unwrapped and leave the
// cache unchanged.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, error) {
	if v, ok := c.lookup(key); ok {
		c.inc("hit")
		return v, nil
	}
	c.inc("miss")

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A coalesced caller may arrive after the winner inserted.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		handle, err := c.construct(ctx, key)
		if err != nil {
			return nil, err
		}
		c.insert(key, handle)
		return handle, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Len returns the number of resident entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// lookup finds key and promotes it to most recently used.
func (c *Cache[V]) lookup(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.key == key {
			copy(c.entries[1:i+1], c.entries[:i])
			c.entries[0] = e
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// insert adds key at the front, evicting the least recently used entry when
// the cache is full.
func (c *Cache[V]) insert(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.entries {
		if e.key == key {
			// Lost a race with another constructor for the same key;
			// keep the resident handle current.
			copy(c.entries[1:i+1], c.entries[:i])
			c.entries[0] = e
			return
		}
	}

	if len(c.entries) == c.capacity {
		evicted := c.entries[len(c.entries)-1]
		c.entries = c.entries[:len(c.entries)-1]
		c.inc("evict")
		if c.logger != nil {
			c.logger.Info("evicted pipeline", zap.String("model", evicted.key))
		}
	}

	c.entries = append([]entry[V]{{key: key, value: value}}, c.entries...)
}

func (c *Cache[V]) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
