// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/poiscope/internal/models"
)

const (
	overpassTimeoutSeconds = 25
	overpassLimit          = 300
)

// OverpassAdapter queries OpenStreetMap data through the Overpass API. It
// serves both categories.
type OverpassAdapter struct {
	client  *HTTPClient
	baseURL string
	lang    string
}

// NewOverpassAdapter creates an adapter for the Overpass instance at baseURL,
// e.g. https://overpass-api.de.
func NewOverpassAdapter(baseURL, lang string, client *HTTPClient) *OverpassAdapter {
	return &OverpassAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
	}
}

// Source implements discovery.SourceAdapter.
func (a *OverpassAdapter) Source() models.Source {
	return models.SourceOpenStreetMap
}

type overpassResponse struct {
	Remark   string            `json:"remark,omitempty"`
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Fetch implements discovery.SourceAdapter.
func (a *OverpassAdapter) Fetch(ctx context.Context, origin models.Location, radiusMeters float64, enabledTypes []models.POIType) ([]models.POI, error) {
	enabled := typeSet(enabledTypes)
	query := buildOverpassQuery(origin, radiusMeters, enabled)
	if query == "" {
		return []models.POI{}, nil
	}

	var resp overpassResponse
	if err := a.client.postForm(ctx, a.baseURL+"/api/interpreter", url.Values{"data": {query}}, &resp); err != nil {
		return nil, err
	}
	// Overpass reports query timeouts as a remark on an otherwise empty 200.
	if len(resp.Elements) == 0 && strings.Contains(resp.Remark, "runtime error") {
		return nil, fmt.Errorf("%w: overpass: %s", ErrAPI, resp.Remark)
	}

	pois := make([]models.POI, 0, len(resp.Elements))
	for i := range resp.Elements {
		if poi, ok := a.toPOI(&resp.Elements[i], enabled); ok {
			pois = append(pois, poi)
		}
	}
	return pois, nil
}

// buildOverpassQuery returns an Overpass QL union of one selector per rule
// of the enabled types, or "" when no rule applies.
func buildOverpassQuery(origin models.Location, radiusMeters float64, enabled map[models.POIType]bool) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", int(radiusMeters), origin.Latitude, origin.Longitude)

	var selectors []string
	for _, rule := range osmRules {
		if !enabled[rule.typ] {
			continue
		}
		selectors = append(selectors, fmt.Sprintf("  nwr%s[\"%s\"~\"^(%s)$\"][\"name\"];",
			around, rule.key, strings.Join(rule.values, "|")))
	}
	if len(selectors) == 0 {
		return ""
	}
	return fmt.Sprintf("[out:json][timeout:%d];\n(\n%s\n);\nout center tags %d;",
		overpassTimeoutSeconds, strings.Join(selectors, "\n"), overpassLimit)
}

func (a *OverpassAdapter) toPOI(el *overpassElement, enabled map[models.POIType]bool) (models.POI, bool) {
	typ, ok := classifyOSMTags(el.Tags, enabled)
	if !ok {
		return models.POI{}, false
	}
	lat, lon := el.Lat, el.Lon
	if el.Center != nil {
		lat, lon = el.Center.Lat, el.Center.Lon
	}

	name := el.Tags["name:"+a.lang]
	if name == "" {
		name = el.Tags["name"]
	}

	poi := models.POI{
		ID:           "osm:" + el.Type + "/" + strconv.FormatInt(el.ID, 10),
		Name:         name,
		Latitude:     lat,
		Longitude:    lon,
		Type:         typ,
		Sources:      []models.Source{models.SourceOpenStreetMap},
		Description:  models.StringPtr(el.Tags["description"]),
		Website:      models.StringPtr(firstTag(el.Tags, "website", "contact:website")),
		OpeningHours: models.StringPtr(el.Tags["opening_hours"]),
		Phone:        models.StringPtr(firstTag(el.Tags, "phone", "contact:phone")),
		Refs:         models.ExternalRefs{WikidataID: el.Tags["wikidata"]},
	}
	// The wikipedia tag is "lang:Title".
	if wp := el.Tags["wikipedia"]; wp != "" {
		if lang, title, found := strings.Cut(wp, ":"); found && title != "" {
			poi.Refs.WikipediaLang = lang
			poi.Refs.WikipediaTitle = title
		}
	}
	poi.NotabilityScore = osmNotability(el.Tags, typ.Category())
	return poi, true
}

// osmNotability scores attractions by how well they are linked to other
// knowledge bases. Commercial places stay unknown (0).
func osmNotability(tags map[string]string, category models.Category) int {
	if category != models.CategoryAttraction {
		return 0
	}
	score := 10
	if tags["wikidata"] != "" {
		score += 30
	}
	if tags["wikipedia"] != "" {
		score += 20
	}
	if tags["heritage"] != "" {
		score += 10
	}
	return score
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := tags[k]; v != "" {
			return v
		}
	}
	return ""
}
