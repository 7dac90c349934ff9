// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/poiscope/internal/models"
)

// Version is reported by /health. Overridden at build time via -ldflags.
var Version = "dev"

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns engine readiness, the active sources, the current discovery phase, cache sizes, WebSocket clients and uptime. The service is degraded when no source adapter is configured.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	sources := h.engine.Sources()
	if sources == nil {
		sources = []models.Source{}
	}

	health := models.HealthStatus{
		Status:      "healthy",
		Version:     Version,
		EngineReady: h.engine.Ready(),
		Sources:     sources,
		Phase:       string(snap.Phase),
		Epoch:       snap.Epoch,
		Uptime:      time.Since(h.startTime).Seconds(),
	}
	if !health.EngineReady {
		health.Status = "degraded"
	}
	if h.wsHub != nil {
		health.WebSocketClients = h.wsHub.GetClientCount()
	}
	if h.results != nil {
		health.ResultEntries = h.results.Len()
	}
	if h.enrichments != nil {
		health.EnrichEntries = h.enrichments.Len()
	}

	respondSuccess(w, r, http.StatusOK, health, time.Time{})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Time{})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the engine has at least one source adapter and is
// not shutting down.
//
// @Summary Kubernetes readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.engine.Ready()

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"engine_ready": ready,
			"sources":      len(h.engine.Sources()),
			"uptime":       time.Since(h.startTime).Seconds(),
		},
		Metadata: responseMetadata(r, time.Time{}),
	})
}
