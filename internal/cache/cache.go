// Package cache holds the short-lived project listing cache.
package cache

import (
	"context"
	"sync"
	"time"

	"taskbridge/internal/metrics"
	"taskbridge/internal/service"
)

// DefaultTTL is how long a project listing stays fresh.
const DefaultTTL = 60 * time.Second

type entry struct {
	data      []service.Project
	timestamp time.Time
}

// ProjectCache is a single-slot cache of the most recent project listing.
// Staleness is checked lazily on Get; there is no background eviction.
type ProjectCache struct {
	mu    sync.Mutex
	entry *entry
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a ProjectCache.
type Option func(*ProjectCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *ProjectCache) { c.now = now }
}

// New creates an empty cache. ttl <= 0 uses DefaultTTL.
func New(ttl time.Duration, opts ...Option) *ProjectCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &ProjectCache{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached listing, or false on a miss or a stale entry.
func (c *ProjectCache) Get() ([]service.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil {
		return nil, false
	}
	if c.now().Sub(c.entry.timestamp) >= c.ttl {
		return nil, false
	}
	return c.entry.data, true
}

// Set stores a listing stamped with the current time. nil clears the cache.
func (c *ProjectCache) Set(data []service.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data == nil {
		c.entry = nil
		return
	}
	c.entry = &entry{data: data, timestamp: c.now()}
}

// Clear drops the cached listing. Called after every project write.
func (c *ProjectCache) Clear() {
	c.Set(nil)
}

// Lister is a cache-backed service.ProjectLister.
type Lister struct {
	next    service.ProjectLister
	cache   *ProjectCache
	metrics *metrics.Metrics
}

// NewLister wraps next with c. m may be nil.
func NewLister(next service.ProjectLister, c *ProjectCache, m *metrics.Metrics) *Lister {
	return &Lister{next: next, cache: c, metrics: m}
}

// ListProjects serves from the cache when fresh, otherwise fetches and stores.
func (l *Lister) ListProjects(ctx context.Context) ([]service.Project, error) {
	if projects, ok := l.cache.Get(); ok {
		l.metrics.CacheHit(true)
		return projects, nil
	}
	l.metrics.CacheHit(false)

	projects, err := l.next.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []service.Project{}
	}
	l.cache.Set(projects)
	return projects, nil
}
