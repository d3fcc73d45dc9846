/*
Package fifo implements a size-bounded cache with first-in-first-out eviction.

When the cache is full, the oldest tenth of its entries is dropped in one go
before a new entry is inserted. Re-inserting an existing key updates its
value but not its age. A Cache is safe for concurrent use.

Under heavy concurrent writes eviction approximates insertion order; callers
must use the cache for performance only, never for correctness.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package fifo

import "sync"

// DefaultCapacity is used for capacities < 1.
const DefaultCapacity = 1000

// Cache is a size-bounded FIFO cache. The zero value is not usable, create
// caches with New.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]V
	order    []K // insertion order, oldest first
}

// New creates a cache holding at most capacity entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		capacity: capacity,
		entries:  make(map[K]V, capacity),
		order:    make([]K, 0, capacity),
	}
}

// Get looks up a key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put inserts or updates an entry, evicting old entries if necessary.
// It returns the number of evicted entries.
func (c *Cache[K, V]) Put(key K, value V) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return 0
	}
	evicted := 0
	if len(c.entries) >= c.capacity {
		evicted = c.evict()
	}
	c.entries[key] = value
	c.order = append(c.order, key)
	return evicted
}

// evict drops the oldest ~10% of entries, at least one. Must be called with
// mu held.
func (c *Cache[K, V]) evict() int {
	n := c.capacity / 10
	if n < 1 {
		n = 1
	}
	if n > len(c.order) {
		n = len(c.order)
	}
	for _, k := range c.order[:n] {
		delete(c.entries, k)
	}
	rest := copy(c.order, c.order[n:])
	var zero K
	for i := rest; i < len(c.order); i++ {
		c.order[i] = zero
	}
	c.order = c.order[:rest]
	return n
}

// PutIf inserts an entry only if cond() holds, evaluated while the cache is
// locked. It returns false if cond() rejected the insert.
func (c *Cache[K, V]) PutIf(key K, value V, cond func() bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !cond() {
		return false
	}
	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.capacity {
			c.evict()
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = value
	return true
}

// Clear drops all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]V, c.capacity)
	c.order = c.order[:0]
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}
