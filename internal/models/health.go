// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package models

// HealthStatus represents the health check response
type HealthStatus struct {
	Status           string   `json:"status"` // "healthy" or "degraded"
	Version          string   `json:"version"`
	EngineReady      bool     `json:"engine_ready"`
	Sources          []Source `json:"sources"`
	Phase            string   `json:"phase"`
	Epoch            uint64   `json:"epoch"`
	WebSocketClients int      `json:"websocket_clients"`
	ResultEntries    int      `json:"result_cache_entries"`
	EnrichEntries    int      `json:"enrichment_cache_entries"`
	Uptime           float64  `json:"uptime_seconds"`
}
