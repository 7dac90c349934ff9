// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package api

import (
	"github.com/tomtom215/poiscope/internal/models"
)

// Request bodies validated with go-playground/validator tags. The custom
// category, poitype and source tags are registered in internal/validation.
//
//	var req DiscoverRequest
//	if !decodeAndValidate(w, r, &req) {
//	    return
//	}

// DiscoverRequest is the body of POST /api/v1/discover.
//
// Latitude and Longitude are pointers so a missing coordinate is rejected
// instead of silently meaning 0.
type DiscoverRequest struct {
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	OriginID     string   `json:"origin_id,omitempty" validate:"omitempty,max=256"`
	Name         string   `json:"name,omitempty" validate:"omitempty,max=256"`
	Category     string   `json:"category" validate:"required,category"`
	ForceRefresh bool     `json:"force_refresh"`
}

// Origin converts the request to the engine's origin type.
func (r *DiscoverRequest) Origin() models.Location {
	return models.Location{
		ID:        r.OriginID,
		Name:      r.Name,
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
	}
}

// TypeFilterRequest is the body of PUT /api/v1/filter/types. A null or
// missing types list restores the types enabled in settings.
type TypeFilterRequest struct {
	Types []string `json:"types" validate:"omitempty,max=64,dive,poitype"`
}

// POITypes converts the filter, preserving nil.
func (r *TypeFilterRequest) POITypes() []models.POIType {
	if r.Types == nil {
		return nil
	}
	out := make([]models.POIType, len(r.Types))
	for i, t := range r.Types {
		out[i] = models.POIType(t)
	}
	return out
}

// SearchRequest is the body of PUT /api/v1/filter/search.
type SearchRequest struct {
	Text string `json:"text" validate:"max=200"`
}

// CacheInvalidateRequest holds the parameters of DELETE /api/v1/cache/{category}.
type CacheInvalidateRequest struct {
	Category string `validate:"required,category"`
	OriginID string `validate:"required,max=256"`
}
