// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package models

import "strings"

// MaxNotabilityScore is the upper bound of POI.NotabilityScore.
const MaxNotabilityScore = 100

// ExternalRefs holds identifiers that link a POI to records in other systems.
// Two POIs sharing any non-empty reference describe the same place.
type ExternalRefs struct {
	WikipediaTitle string `json:"wikipedia_title,omitempty"`
	WikipediaLang  string `json:"wikipedia_lang,omitempty"`
	WikidataID     string `json:"wikidata_id,omitempty"` // Q-number
	PlaceID        string `json:"place_id,omitempty"`    // provider place identifier
}

// IsZero reports whether no reference is set.
func (r ExternalRefs) IsZero() bool {
	return r.WikipediaTitle == "" && r.WikidataID == "" && r.PlaceID == ""
}

// WikipediaKey returns "lang:Title" with underscores folded to spaces, or ""
// when no article is referenced.
func (r ExternalRefs) WikipediaKey() string {
	if r.WikipediaTitle == "" {
		return ""
	}
	lang := r.WikipediaLang
	if lang == "" {
		lang = "en"
	}
	return strings.ToLower(lang) + ":" + strings.ReplaceAll(r.WikipediaTitle, "_", " ")
}

// Shares reports whether r and o have at least one identical reference.
func (r ExternalRefs) Shares(o ExternalRefs) bool {
	if k := r.WikipediaKey(); k != "" && k == o.WikipediaKey() {
		return true
	}
	if r.WikidataID != "" && strings.EqualFold(r.WikidataID, o.WikidataID) {
		return true
	}
	return r.PlaceID != "" && r.PlaceID == o.PlaceID
}

// Fill returns r with empty references taken from o.
func (r ExternalRefs) Fill(o ExternalRefs) ExternalRefs {
	if r.WikipediaTitle == "" {
		r.WikipediaTitle = o.WikipediaTitle
		r.WikipediaLang = o.WikipediaLang
	}
	if r.WikidataID == "" {
		r.WikidataID = o.WikidataID
	}
	if r.PlaceID == "" {
		r.PlaceID = o.PlaceID
	}
	return r
}

// POI is a discovered point of interest.
type POI struct {
	ID             string   `json:"id"` // provider-qualified, e.g. "osm:node/123"
	Name           string   `json:"name"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	DistanceMeters float64  `json:"distance_meters"`
	Type           POIType  `json:"type"`
	Category       Category `json:"category"`
	Sources        []Source `json:"sources"` // sorted by Source.Rank

	Description  *string      `json:"description,omitempty"`
	Refs         ExternalRefs `json:"refs"`
	ImageURL     *string      `json:"image_url,omitempty"`
	Website      *string      `json:"website,omitempty"`
	OpeningHours *string      `json:"opening_hours,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	ArticleURL   *string      `json:"article_url,omitempty"`
	Rating       *float64     `json:"rating,omitempty"`      // 0-5
	PriceLevel   *int         `json:"price_level,omitempty"` // 0-4

	NotabilityScore int `json:"notability_score"` // 0-100, 0 when unknown
}

// BestRank returns the highest priority (lowest rank) among the POI's sources.
func (p *POI) BestRank() int {
	return BestRank(p.Sources)
}

// HasSource reports whether s contributed to the POI.
func (p *POI) HasSource(s Source) bool {
	for _, ps := range p.Sources {
		if ps == s {
			return true
		}
	}
	return false
}

// PlaceKey identifies the POI for enrichment caching. It prefers the provider
// place identifier, then the encyclopedia article, then the knowledge-graph ID.
func (p *POI) PlaceKey() string {
	switch {
	case p.Refs.PlaceID != "":
		return "place:" + p.Refs.PlaceID
	case p.Refs.WikipediaTitle != "":
		return "wikipedia:" + p.Refs.WikipediaKey()
	case p.Refs.WikidataID != "":
		return "wikidata:" + strings.ToUpper(p.Refs.WikidataID)
	default:
		return "id:" + p.ID
	}
}

// Clone returns a deep copy so snapshots never share mutable state.
func (p POI) Clone() POI {
	p.Sources = append([]Source(nil), p.Sources...)
	p.Description = cloneString(p.Description)
	p.ImageURL = cloneString(p.ImageURL)
	p.Website = cloneString(p.Website)
	p.OpeningHours = cloneString(p.OpeningHours)
	p.Phone = cloneString(p.Phone)
	p.ArticleURL = cloneString(p.ArticleURL)
	if p.Rating != nil {
		v := *p.Rating
		p.Rating = &v
	}
	if p.PriceLevel != nil {
		v := *p.PriceLevel
		p.PriceLevel = &v
	}
	return p
}

// FillFrom copies every optional field that is nil on p from o. Identity,
// display fields and sources are left untouched.
func (p *POI) FillFrom(o *POI) {
	if p.Description == nil {
		p.Description = cloneString(o.Description)
	}
	if p.ImageURL == nil {
		p.ImageURL = cloneString(o.ImageURL)
	}
	if p.Website == nil {
		p.Website = cloneString(o.Website)
	}
	if p.OpeningHours == nil {
		p.OpeningHours = cloneString(o.OpeningHours)
	}
	if p.Phone == nil {
		p.Phone = cloneString(o.Phone)
	}
	if p.ArticleURL == nil {
		p.ArticleURL = cloneString(o.ArticleURL)
	}
	if p.Rating == nil && o.Rating != nil {
		v := *o.Rating
		p.Rating = &v
	}
	if p.PriceLevel == nil && o.PriceLevel != nil {
		v := *o.PriceLevel
		p.PriceLevel = &v
	}
	p.Refs = p.Refs.Fill(o.Refs)
}

// ClampScore bounds a notability score to 0..MaxNotabilityScore.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxNotabilityScore {
		return MaxNotabilityScore
	}
	return score
}

// ClonePOIs deep-copies a list.
func ClonePOIs(pois []POI) []POI {
	if pois == nil {
		return nil
	}
	out := make([]POI, len(pois))
	for i := range pois {
		out[i] = pois[i].Clone()
	}
	return out
}

// StringPtr returns a pointer to s, or nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
