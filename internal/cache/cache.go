// Package cache provides a capacity-bounded in-memory TTL cache for derived
// views such as generated budget estimates. It replaces the ad hoc
// map-plus-timestamp pattern with an explicit abstraction: bounded size,
// explicit invalidation, safe for concurrent use.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache maps string keys to arbitrary values with a per-cache TTL. When the
// capacity is reached the least recently used entry is evicted.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	now      func() time.Time
}

type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// New creates a cache holding at most capacity entries, each valid for ttl.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get returns the cached value and whether it was present and unexpired.
// Expired entries are removed on access.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.remove(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores a value, evicting the least recently used entry when full.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = c.now().Add(c.ttl)
		c.order.MoveToFront(el)
		return
	}

	for len(c.entries) >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.remove(oldest)
	}

	el := c.order.PushFront(&entry{
		key:       key,
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	})
	c.entries[key] = el
}

// Invalidate removes one entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
}

// InvalidatePrefix removes every entry whose key starts with prefix. Used to
// drop all cached views of one session in a single call.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next *list.Element
	for el := c.order.Front(); el != nil; el = next {
		next = el.Next()
		e := el.Value.(*entry)
		if len(e.key) >= len(prefix) && e.key[:len(prefix)] == prefix {
			c.remove(el)
		}
	}
}

// Len reports the number of live entries, counting expired ones not yet
// collected.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the lock held.
func (c *Cache) remove(el *list.Element) {
	e := el.Value.(*entry)
	delete(c.entries, e.key)
	c.order.Remove(el)
}
