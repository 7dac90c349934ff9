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

// EnrichmentCache holds enrichment payloads keyed by place key for the
// lifetime of the process. Entries are never evicted.
type EnrichmentCache struct {
	mu     sync.RWMutex
	items  map[string]models.Enrichment
	hits   int64
	misses int64
}

// NewEnrichmentCache creates an empty enrichment cache.
func NewEnrichmentCache() *EnrichmentCache {
	return &EnrichmentCache{items: make(map[string]models.Enrichment)}
}

// Get returns the enrichment stored for key.
func (c *EnrichmentCache) Get(key string) (*models.Enrichment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses++
		metrics.CacheMisses.WithLabelValues("enrichment").Inc()
		return nil, false
	}
	c.hits++
	metrics.CacheHits.WithLabelValues("enrichment").Inc()
	return &e, true
}

// Put stores an enrichment. A later Put for the same key replaces it.
func (c *EnrichmentCache) Put(key string, e *models.Enrichment) {
	if e == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = *e
	metrics.CacheSize.WithLabelValues("enrichment").Set(float64(len(c.items)))
}

// Len returns the number of cached enrichments.
func (c *EnrichmentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns hit/miss statistics.
func (c *EnrichmentCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.items)}
}

// Clear removes all entries.
func (c *EnrichmentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]models.Enrichment)
	metrics.CacheSize.WithLabelValues("enrichment").Set(0)
}
