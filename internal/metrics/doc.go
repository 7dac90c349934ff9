// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:8642/metrics

# Available Metrics

Discovery:
  - discovery_requests_total{category,outcome}
  - discovery_duration_seconds{category,phase}: phase1, phase2 and total
  - discovery_result_pois{category}
  - discovery_dedup_merges_total
  - discovery_current_epoch

Providers:
  - provider_requests_total{source,result}
  - provider_request_duration_seconds{source}
  - provider_retries_total{source}, provider_retries_exhausted_total{source}
  - provider_rate_limit_wait_seconds{source}

Caches (cache_type is "result" or "enrichment"):
  - cache_hits_total, cache_misses_total, cache_entries, cache_evictions_total

Circuit breakers (one per provider):
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

API and WebSocket:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - websocket_connections, websocket_messages_sent_total, websocket_messages_dropped_total
*/
package metrics
