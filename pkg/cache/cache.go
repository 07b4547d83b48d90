// Package cache implements a bounded in-memory cache with LRU eviction and
// lazy TTL expiry. The pipeline uses it to deduplicate grounding lookups
// across runs; nothing in here survives a process restart.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is the internal record stored per key. It is never handed out.
type entry[K comparable, V any] struct {
	key        K
	value      V
	insertedAt time.Time
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Entries     int    `json:"entries"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`
}

// Cache is a fixed-capacity key/value store. Lookups refresh recency, so
// capacity pressure always evicts the least-recently-used entry. Expired
// entries are only removed when touched: there is no background sweeper, and
// callers must not rely on proactive cleanup.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front = most recently used
	items    map[K]*list.Element
	now      func() time.Time

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// New creates a cache holding at most capacity entries, each live for ttl
// after insertion. capacity must be positive and ttl must be greater than
// zero; both come from validated configuration.
func New[K comparable, V any](capacity int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[K]*list.Element, capacity),
		now:      time.Now,
	}
}

// Get returns the value stored under key. A key that is unknown, or whose
// entry has outlived the TTL, reports absent; the expired entry is removed as
// a side effect. A hit moves the entry to the most-recently-used position.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}

	ent := elem.Value.(*entry[K, V])
	if c.now().Sub(ent.insertedAt) > c.ttl {
		c.removeElement(elem)
		c.expirations++
		c.misses++
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return ent.value, true
}

// Set stores value under key. An existing key is replaced in place with a
// fresh insertion time and refreshed recency. A new key at capacity first
// evicts the least-recently-used entry.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry[K, V])
		ent.value = value
		ent.insertedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
			c.evictions++
		}
	}

	elem := c.order.PushFront(&entry[K, V]{
		key:        key,
		value:      value,
		insertedAt: c.now(),
	})
	c.items[key] = elem
}

// Len returns the number of stored entries, counting any that have expired
// but not yet been touched.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge drops every entry. Counters are retained.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[K]*list.Element, c.capacity)
}

// Stats returns a snapshot of the effectiveness counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:     c.order.Len(),
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}

// removeElement unlinks an entry from both the recency list and the index.
// Callers hold the lock.
func (c *Cache[K, V]) removeElement(elem *list.Element) {
	ent := elem.Value.(*entry[K, V])
	delete(c.items, ent.key)
	c.order.Remove(elem)
}
