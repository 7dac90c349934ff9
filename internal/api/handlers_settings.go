// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/poiscope/internal/cache"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/models"
)

// SettingsResponse is the current settings with their last change time.
type SettingsResponse struct {
	Settings  models.Settings `json:"settings"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CacheStatsResponse reports both caches.
type CacheStatsResponse struct {
	Results     cache.Stats `json:"results"`
	Enrichments cache.Stats `json:"enrichments"`
	Keys        []string    `json:"keys"`
}

func (h *Handler) settingsResponse() SettingsResponse {
	return SettingsResponse{
		Settings:  h.settings.Settings(),
		UpdatedAt: h.settings.UpdatedAt(),
	}
}

// GetSettings returns the current user settings.
//
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Success 200 {object} models.APIResponse{data=SettingsResponse}
// @Router /api/v1/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.settingsResponse(), time.Time{})
}

// UpdateSettings replaces the user settings. The next discovery or filter
// change picks them up; the current result is not re-fetched.
//
// @Summary Replace settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body models.Settings true "Complete settings"
// @Success 200 {object} models.APIResponse{data=SettingsResponse}
// @Failure 400 {object} models.APIResponse "Invalid settings"
// @Router /api/v1/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var next models.Settings
	if err := decodeJSONBody(w, r, &next); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
		return
	}

	if err := h.settings.Update(next); err != nil {
		respondDiscoveryError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("sources", len(next.EnabledSources)).
		Float64("radius_meters", next.RadiusMeters).
		Msg("Settings updated")
	respondSuccess(w, r, http.StatusOK, h.settingsResponse(), time.Time{})
}

// ResetSettings restores the configured defaults.
//
// @Summary Reset settings
// @Tags Settings
// @Produce json
// @Success 200 {object} models.APIResponse{data=SettingsResponse}
// @Router /api/v1/settings [delete]
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	h.settings.Reset()
	logging.Ctx(r.Context()).Info().Msg("Settings reset to defaults")
	respondSuccess(w, r, http.StatusOK, h.settingsResponse(), time.Time{})
}

func (h *Handler) cacheStats() CacheStatsResponse {
	resp := CacheStatsResponse{Keys: []string{}}
	if h.results != nil {
		resp.Results = h.results.Stats()
		for _, k := range h.results.Keys() {
			resp.Keys = append(resp.Keys, k.String())
		}
	}
	if h.enrichments != nil {
		resp.Enrichments = h.enrichments.Stats()
	}
	return resp
}

// CacheStats reports hit and eviction counters of both caches.
//
// @Summary Cache statistics
// @Tags Cache
// @Produce json
// @Success 200 {object} models.APIResponse{data=CacheStatsResponse}
// @Router /api/v1/cache [get]
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.cacheStats(), time.Time{})
}

// ClearCache empties the result and enrichment caches. The current
// discovery state is left alone.
//
// @Summary Clear caches
// @Tags Cache
// @Produce json
// @Success 200 {object} models.APIResponse{data=CacheStatsResponse}
// @Router /api/v1/cache [delete]
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.results != nil {
		h.results.Clear()
	}
	if h.enrichments != nil {
		h.enrichments.Clear()
	}
	logging.Ctx(r.Context()).Info().Msg("Caches cleared")
	respondSuccess(w, r, http.StatusOK, h.cacheStats(), time.Time{})
}

// InvalidateCache drops one cached result so the next discovery for that
// origin and category goes upstream.
//
// @Summary Invalidate a cached result
// @Tags Cache
// @Produce json
// @Param category path string true "Category (attraction or commercial)"
// @Param origin_id query string true "Origin key as reported by GET /api/v1/cache"
// @Success 200 {object} models.APIResponse "Entry removed"
// @Failure 404 {object} models.APIResponse "No such entry"
// @Router /api/v1/cache/{category} [delete]
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	req := CacheInvalidateRequest{
		Category: chi.URLParam(r, "category"),
		OriginID: r.URL.Query().Get("origin_id"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	key := cache.ResultKey{OriginID: req.OriginID, Category: models.Category(req.Category)}
	if h.results == nil || !h.results.Invalidate(key) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "no cached result for "+sanitizeLogValue(key.String()), nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]string{"invalidated": key.String()}, time.Time{})
}
