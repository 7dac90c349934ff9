// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package cache

import (
	"sync"

	"github.com/tomtom215/poiscope/internal/metrics"
	"github.com/tomtom215/poiscope/internal/models"
)

// DefaultResultCapacity is used when NewResultCache is given a non-positive capacity.
const DefaultResultCapacity = 20

// ResultKey identifies a cached discovery result.
type ResultKey struct {
	OriginID string
	Category models.Category
}

func (k ResultKey) String() string {
	return k.OriginID + "/" + string(k.Category)
}

// resultEntry is a node in the insertion-ordered list.
type resultEntry struct {
	key   ResultKey
	value []models.POI
	prev  *resultEntry
	next  *resultEntry
}

// ResultCache is a bounded cache of ranked discovery results with
// least-recently-inserted (FIFO) eviction. Reads never change eviction order;
// only Put does, and only for the key it writes.
//
// Values are deep-copied on the way in and out so callers can never mutate
// a cached list.
type ResultCache struct {
	mu sync.Mutex

	capacity int
	items    map[ResultKey]*resultEntry

	// head.next is the newest insertion, tail.prev the oldest
	head *resultEntry
	tail *resultEntry

	hits      int64
	misses    int64
	evictions int64
}

// NewResultCache creates a result cache holding at most capacity entries.
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = DefaultResultCapacity
	}

	c := &ResultCache{
		capacity: capacity,
		items:    make(map[ResultKey]*resultEntry, capacity),
		head:     &resultEntry{},
		tail:     &resultEntry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get returns a copy of the cached list for key.
func (c *ResultCache) Get(key ResultKey) ([]models.POI, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		c.misses++
		metrics.CacheMisses.WithLabelValues("result").Inc()
		return nil, false
	}

	c.hits++
	metrics.CacheHits.WithLabelValues("result").Inc()
	return models.ClonePOIs(entry.value), true
}

// Put stores value under key, replacing any previous entry. A replaced entry
// counts as a fresh insertion. The oldest insertion is evicted once the
// cache holds more than capacity entries.
func (c *ResultCache) Put(key ResultKey, value []models.POI) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.items[key]; ok {
		c.unlink(existing)
		delete(c.items, key)
	}

	entry := &resultEntry{key: key, value: models.ClonePOIs(value)}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}

	metrics.CacheSize.WithLabelValues("result").Set(float64(len(c.items)))
}

// Invalidate removes key. Returns true if an entry was removed.
func (c *ResultCache) Invalidate(key ResultKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(entry)
	delete(c.items, key)
	metrics.CacheSize.WithLabelValues("result").Set(float64(len(c.items)))
	return true
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[ResultKey]*resultEntry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
	metrics.CacheSize.WithLabelValues("result").Set(0)
}

// Len returns the current number of entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns the cached keys from oldest to newest insertion.
func (c *ResultCache) Keys() []ResultKey {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]ResultKey, 0, len(c.items))
	for e := c.tail.prev; e != c.head; e = e.prev {
		keys = append(keys, e.key)
	}
	return keys
}

// Stats returns cache hit/miss/eviction statistics.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   len(c.items),
		Capacity:  c.capacity,
	}
}

// Internal methods (must be called with lock held)

func (c *ResultCache) addToFront(entry *resultEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *ResultCache) unlink(entry *resultEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

func (c *ResultCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.unlink(oldest)
	delete(c.items, oldest.key)
	c.evictions++
	metrics.CacheEvictions.WithLabelValues("result").Inc()
}
