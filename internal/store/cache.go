// ABOUTME: Bounded fingerprint-keyed cache for document query results
// ABOUTME: Capacity-limited with FIFO eviction, cleared on any document write

package store

import "sync"

// defaultQueryCacheSize bounds the number of cached query pages.
const defaultQueryCacheSize = 512

// queryCache is a small bounded cache keyed by a query fingerprint
// (predicate + page + page size). It lives entirely inside the
// backend-access layer; the protocol core never sees it. Eviction is
// FIFO by insertion order, which is cheap and good enough for a cache
// that is wiped on every write anyway.
type queryCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][]map[string]any
	order    []string
}

func newQueryCache(capacity int) *queryCache {
	if capacity < 1 {
		capacity = 1
	}
	return &queryCache{
		capacity: capacity,
		entries:  make(map[string][]map[string]any),
	}
}

func (c *queryCache) get(key string) ([]map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, ok := c.entries[key]
	return rows, ok
}

func (c *queryCache) put(key string, rows []map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = rows
}

func (c *queryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]map[string]any)
	c.order = c.order[:0]
}
