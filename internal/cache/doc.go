// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package cache provides the in-memory stores used by the discovery engine.

  - ResultCache: bounded store of ranked discovery results keyed by
    (origin, category). Eviction is least-recently-inserted: a Get never
    protects an entry, only a new Put does.
  - EnrichmentCache: unbounded store of per-place enrichment payloads, kept
    for the process lifetime.
  - SpatialIndex: grid-bucketed point index for proximity lookups during
    deduplication.

Nothing here is persisted. All types are safe for concurrent use.

# Usage Example

	results := cache.NewResultCache(20)
	key := cache.ResultKey{OriginID: "paris", Category: models.CategoryAttraction}
	results.Put(key, ranked)
	if pois, ok := results.Get(key); ok {
	    // serve pois
	}
*/
package cache
