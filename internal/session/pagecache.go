// Package session holds the per-view state a front-end polls: the loaded
// page cache, the pending-edit overlay, and the external collaborator
// contract fields from §4.G (status, scroll target, pending edits).
package session

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	DefaultMaxPages       = 256
	DefaultPageTTL        = 2 * time.Minute
	DefaultCleanupPeriod  = 30 * time.Second
	estimatedBytesPerPage = 4096
)

type cachedPage struct {
	path        string
	text        string
	cachedAt    int64 // UnixNano, atomic
	accessCount int64 // atomic
}

// PageCache holds decoded page text keyed by (path, pageIndex), trading
// memory for avoiding a repeat decode of the same viewport. It never
// stores the pending-edit overlay — that always composes with a cache
// hit at read time so a stale cached page never masks an edit.
type PageCache struct {
	entries sync.Map // map[uint64]*cachedPage

	maxPages int
	ttlNanos int64

	hits      int64
	misses    int64
	evictions int64
	count     int64

	createdAt time.Time
}

// NewPageCache builds a cache bounded to maxPages entries, each expiring
// after ttl. A zero maxPages or ttl falls back to the package defaults.
func NewPageCache(maxPages int, ttl time.Duration) *PageCache {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{maxPages: maxPages, ttlNanos: ttl.Nanoseconds(), createdAt: time.Now()}
}

func pageKey(path string, pageIndex int64) uint64 {
	h := xxhash.New()
	h.WriteString(path)
	h.Write([]byte{0})
	h.WriteString(strconv.FormatInt(pageIndex, 10))
	return h.Sum64()
}

// Get returns the cached page text for (path, pageIndex) and whether it
// was present and unexpired.
func (c *PageCache) Get(path string, pageIndex int64) (string, bool) {
	key := pageKey(path, pageIndex)
	val, ok := c.entries.Load(key)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}
	page := val.(*cachedPage)
	if time.Now().UnixNano()-atomic.LoadInt64(&page.cachedAt) > c.ttlNanos {
		if c.entries.CompareAndDelete(key, val) {
			atomic.AddInt64(&c.count, -1)
		}
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}
	atomic.AddInt64(&page.accessCount, 1)
	atomic.AddInt64(&c.hits, 1)
	return page.text, true
}

// Put stores text for (path, pageIndex), evicting the oldest entry first
// if the cache is at capacity.
func (c *PageCache) Put(path string, pageIndex int64, text string) {
	key := pageKey(path, pageIndex)
	page := &cachedPage{path: path, text: text, cachedAt: time.Now().UnixNano(), accessCount: 1}
	if _, loaded := c.entries.Swap(key, page); !loaded {
		if atomic.AddInt64(&c.count, 1) > int64(c.maxPages) {
			c.evictOldest()
		}
	}
}

func (c *PageCache) evictOldest() {
	var oldestKey any
	oldestTime := time.Now().UnixNano()
	c.entries.Range(func(key, value any) bool {
		page := value.(*cachedPage)
		if t := atomic.LoadInt64(&page.cachedAt); t < oldestTime {
			oldestTime = t
			oldestKey = key
		}
		return true
	})
	if oldestKey != nil {
		c.entries.Delete(oldestKey)
		atomic.AddInt64(&c.count, -1)
		atomic.AddInt64(&c.evictions, 1)
	}
}

// Invalidate drops every cached page for path, used after a rewrite or
// splice changes the underlying file.
func (c *PageCache) Invalidate(path string) {
	c.entries.Range(func(key, value any) bool {
		if value.(*cachedPage).path == path {
			c.entries.Delete(key)
			atomic.AddInt64(&c.count, -1)
		}
		return true
	})
}

// Stats reports point-in-time cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int64
	HitRate   float64
	Uptime    time.Duration
}

func (c *PageCache) Stats() Stats {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Hits:      hits,
		Misses:    misses,
		Evictions: atomic.LoadInt64(&c.evictions),
		Entries:   atomic.LoadInt64(&c.count),
		HitRate:   hitRate,
		Uptime:    time.Since(c.createdAt),
	}
}
