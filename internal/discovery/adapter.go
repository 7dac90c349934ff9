// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/poiscope/internal/models"
)

// SourceAdapter wraps one external POI provider.
//
// Fetch either returns POIs or an error, never both. Implementations must be
// safe for concurrent use and must not retain or mutate engine state.
type SourceAdapter interface {
	Source() models.Source
	Fetch(ctx context.Context, origin models.Location, radiusMeters float64, enabledTypes []models.POIType) ([]models.POI, error)
}

// Enricher fetches secondary detail for a single POI.
type Enricher interface {
	Supports(poi *models.POI) bool
	Enrich(ctx context.Context, poi *models.POI) (*models.Enrichment, error)
}

// SettingsProvider supplies the discovery settings in effect for a call.
type SettingsProvider interface {
	Settings() models.Settings
}

// StaticSettings is a SettingsProvider that always returns the same settings.
type StaticSettings models.Settings

// Settings implements SettingsProvider.
func (s StaticSettings) Settings() models.Settings {
	return models.Settings(s).Clone()
}

// SourceReport summarizes one adapter's contribution to a request.
type SourceReport struct {
	Source       models.Source `json:"source"`
	Phase        int           `json:"phase"`
	Succeeded    bool          `json:"succeeded"`
	Attempts     int           `json:"attempts"`
	RadiusMeters float64       `json:"radius_meters"`
	POIs         int           `json:"pois"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration_ns"`
}

// normalizePOIs enforces the POI invariants on one adapter's output: records
// without identity, name or valid coordinates are dropped, as are types from
// another category. Distance is recomputed from the origin and the adapter's
// source is always present.
func normalizePOIs(req *Request, source models.Source, pois []models.POI) []models.POI {
	out := make([]models.POI, 0, len(pois))
	for i := range pois {
		p := &pois[i]
		if p.ID == "" || strings.TrimSpace(p.Name) == "" {
			continue
		}
		if !models.ValidCoordinates(p.Latitude, p.Longitude) {
			continue
		}
		category := p.Type.Category()
		if category != req.Category {
			continue
		}

		n := p.Clone()
		n.Category = category
		n.DistanceMeters = req.Origin.DistanceTo(n.Latitude, n.Longitude)
		n.Sources = models.UnionSources(n.Sources, []models.Source{source})
		n.NotabilityScore = models.ClampScore(n.NotabilityScore)
		out = append(out, n)
	}
	return out
}
