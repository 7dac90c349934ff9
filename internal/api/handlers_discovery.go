// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/models"
	ws "github.com/tomtom215/poiscope/internal/websocket"
)

// StateResponse is the compact discovery state plus per-source reports.
type StateResponse struct {
	ws.DiscoveryStateData
	Reports []discovery.SourceReport `json:"reports,omitempty"`
}

func newStateResponse(s *discovery.Snapshot) StateResponse {
	return StateResponse{
		DiscoveryStateData: ws.NewDiscoveryStateData(s),
		Reports:            s.Reports,
	}
}

// DiscoverResponse acknowledges a discover or retry call. State is the
// snapshot right after the call: complete for a cache hit, loading otherwise.
type DiscoverResponse struct {
	Epoch uint64        `json:"epoch"`
	State StateResponse `json:"state"`
}

// Discover starts discovery around an origin.
//
// @Summary Start discovery
// @Description Starts a discovery request and returns immediately with its epoch. Progress is published on the WebSocket stream and via GET /api/v1/state. A cached result completes synchronously unless force_refresh is set.
// @Tags Discovery
// @Accept json
// @Produce json
// @Param request body DiscoverRequest true "Origin and category"
// @Success 202 {object} models.APIResponse{data=DiscoverResponse} "Discovery started"
// @Success 200 {object} models.APIResponse{data=DiscoverResponse} "Served from cache"
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 422 {object} models.APIResponse "Settings disable every source or type"
// @Router /api/v1/discover [post]
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req DiscoverRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	epoch, err := h.engine.Discover(req.Origin(), models.Category(req.Category), req.ForceRefresh)
	if err != nil {
		respondDiscoveryError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Uint64("epoch", epoch).
		Str("category", req.Category).
		Bool("force_refresh", req.ForceRefresh).
		Msg("Discovery requested")

	h.respondStarted(w, r, epoch, start)
}

// Retry re-issues the last discovery with a forced refresh.
//
// @Summary Retry last discovery
// @Description Re-runs the most recent discovery request, bypassing the result cache.
// @Tags Discovery
// @Produce json
// @Success 202 {object} models.APIResponse{data=DiscoverResponse} "Discovery restarted"
// @Failure 409 {object} models.APIResponse "No previous request"
// @Router /api/v1/discover/retry [post]
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	epoch, err := h.engine.Retry()
	if err != nil {
		respondDiscoveryError(w, r, err)
		return
	}
	h.respondStarted(w, r, epoch, start)
}

func (h *Handler) respondStarted(w http.ResponseWriter, r *http.Request, epoch uint64, start time.Time) {
	snap := h.engine.Snapshot()
	status := http.StatusAccepted
	if snap.Epoch == epoch && snap.Phase.Terminal() {
		status = http.StatusOK
	}

	resp := &models.APIResponse{
		Status:   "success",
		Data:     DiscoverResponse{Epoch: epoch, State: newStateResponse(&snap)},
		Metadata: responseMetadata(r, start),
	}
	resp.Metadata.Cached = snap.Epoch == epoch && snap.FromCache
	respondJSON(w, status, resp)
}

// Clear supersedes any in-flight discovery and returns to idle.
//
// @Summary Clear discovery state
// @Tags Discovery
// @Produce json
// @Success 200 {object} models.APIResponse "Cleared"
// @Router /api/v1/discover/clear [post]
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	epoch := h.engine.Clear()
	respondSuccess(w, r, http.StatusOK, map[string]uint64{"epoch": epoch}, time.Time{})
}

// State returns the current discovery state.
//
// @Summary Current discovery state
// @Description Returns the displayed POIs with counts and per-source reports. With full=true the complete snapshot including the ranked and filtered lists is returned.
// @Tags Discovery
// @Produce json
// @Param full query bool false "Return the complete snapshot"
// @Success 200 {object} models.APIResponse{data=StateResponse}
// @Router /api/v1/state [get]
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()

	if full, _ := strconv.ParseBool(r.URL.Query().Get("full")); full {
		respondSuccess(w, r, http.StatusOK, snap, time.Time{})
		return
	}
	respondSuccess(w, r, http.StatusOK, newStateResponse(&snap), time.Time{})
}

// UpdateTypeFilter narrows the current result to a set of POI types.
//
// @Summary Filter by POI type
// @Description Re-ranks the current result without fetching. A null types list restores the types enabled in settings.
// @Tags Discovery
// @Accept json
// @Produce json
// @Param request body TypeFilterRequest true "Types to show"
// @Success 200 {object} models.APIResponse{data=StateResponse}
// @Failure 400 {object} models.APIResponse "Unknown type"
// @Router /api/v1/filter/types [put]
func (h *Handler) UpdateTypeFilter(w http.ResponseWriter, r *http.Request) {
	var req TypeFilterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.engine.UpdateTypeFilter(req.POITypes()); err != nil {
		respondDiscoveryError(w, r, err)
		return
	}
	snap := h.engine.Snapshot()
	respondSuccess(w, r, http.StatusOK, newStateResponse(&snap), time.Time{})
}

// UpdateSearch narrows the current result by name or description.
//
// @Summary Search within results
// @Description Matches names and descriptions ignoring case and diacritics. An empty text clears the search.
// @Tags Discovery
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Search text"
// @Success 200 {object} models.APIResponse{data=StateResponse}
// @Router /api/v1/filter/search [put]
func (h *Handler) UpdateSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.engine.UpdateSearchText(req.Text)
	snap := h.engine.Snapshot()
	respondSuccess(w, r, http.StatusOK, newStateResponse(&snap), time.Time{})
}

// FetchEnrichment fetches secondary details for a POI in the current state.
//
// POI IDs contain slashes (for example osm:node/123), so clients must
// path-escape the ID.
//
// @Summary Enrich a place
// @Description Fetches description, image, opening hours and similar details for a POI of the current result. Results are cached for the process lifetime and patched into the state.
// @Tags Discovery
// @Produce json
// @Param id path string true "Path-escaped POI ID"
// @Success 200 {object} models.APIResponse{data=models.POI}
// @Failure 404 {object} models.APIResponse "POI not in current state or no enrichment available"
// @Failure 502 {object} models.APIResponse "Upstream failure"
// @Router /api/v1/pois/{id}/enrichment [post]
func (h *Handler) FetchEnrichment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "invalid POI id", nil)
		return
	}

	snap := h.engine.Snapshot()
	poi, ok := snap.FindPOI(id)
	if !ok {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "POI is not part of the current discovery result", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.enrichTimeout)
	defer cancel()

	enriched, err := h.engine.FetchEnrichment(ctx, poi)
	if err != nil {
		if errors.Is(r.Context().Err(), context.Canceled) {
			return
		}
		respondDiscoveryError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, enriched, start)
}
