// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"sort"

	"github.com/tomtom215/poiscope/internal/models"
)

// DefaultDisplayLimit is the number of POIs shown by default.
const DefaultDisplayLimit = 20

// Ranker filters a merged POI list by enabled type and orders it.
//
// Within a type, POIs are ordered by notability score, highest first, keeping
// their input order on ties. Type groups follow the caller's priority list,
// then the category's default order, then any remaining types by name.
type Ranker struct{}

// NewRanker creates a Ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank returns a new list holding the POIs whose type is enabled.
func (r *Ranker) Rank(pois []models.POI, enabled, priority []models.POIType, category models.Category) []models.POI {
	allowed := make(map[models.POIType]bool, len(enabled))
	for _, t := range enabled {
		allowed[t] = true
	}

	groups := make(map[models.POIType][]models.POI)
	for i := range pois {
		if allowed[pois[i].Type] {
			groups[pois[i].Type] = append(groups[pois[i].Type], pois[i].Clone())
		}
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].NotabilityScore > g[j].NotabilityScore
		})
	}

	out := make([]models.POI, 0, len(pois))
	for _, t := range typeOrder(groups, priority, category) {
		out = append(out, groups[t]...)
	}
	return out
}

// typeOrder lists every type present in groups exactly once.
func typeOrder(groups map[models.POIType][]models.POI, priority []models.POIType, category models.Category) []models.POIType {
	order := make([]models.POIType, 0, len(groups))
	seen := make(map[models.POIType]bool, len(groups))
	take := func(types []models.POIType) {
		for _, t := range types {
			if _, ok := groups[t]; ok && !seen[t] {
				seen[t] = true
				order = append(order, t)
			}
		}
	}

	take(priority)
	take(models.DefaultTypeOrder(category))

	var rest []models.POIType
	for t := range groups {
		if !seen[t] {
			rest = append(rest, t)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(order, rest...)
}

// Display returns at most k POIs from the head of a ranked list. A
// non-positive k returns the whole list.
func Display(ranked []models.POI, k int) []models.POI {
	if k <= 0 || k >= len(ranked) {
		return ranked
	}
	return ranked[:k]
}
