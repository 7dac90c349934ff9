// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package models

import "time"

// Enrichment is secondary detail fetched on demand for a single POI.
// Every field is optional; a nil field means the enricher had nothing for it.
type Enrichment struct {
	Source       Source    `json:"source"`
	Description  *string   `json:"description,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Website      *string   `json:"website,omitempty"`
	OpeningHours *string   `json:"opening_hours,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	ArticleURL   *string   `json:"article_url,omitempty"`
	Rating       *float64  `json:"rating,omitempty"`
	PriceLevel   *int      `json:"price_level,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Apply merges the enrichment into a copy of p field by field. Values already
// present on the POI win; enrichment only fills gaps.
func (e *Enrichment) Apply(p POI) POI {
	out := p.Clone()
	if e == nil {
		return out
	}
	out.FillFrom(&POI{
		Description:  e.Description,
		ImageURL:     e.ImageURL,
		Website:      e.Website,
		OpeningHours: e.OpeningHours,
		Phone:        e.Phone,
		ArticleURL:   e.ArticleURL,
		Rating:       e.Rating,
		PriceLevel:   e.PriceLevel,
	})
	return out
}
