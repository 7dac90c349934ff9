// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package models

import "sort"

// Source identifies the provider that contributed a POI record.
type Source string

const (
	SourceWikipedia     Source = "wikipedia"
	SourceWikidata      Source = "wikidata"
	SourceGooglePlaces  Source = "googleplaces"
	SourceOpenStreetMap Source = "openstreetmap"
)

// unrankedSource sorts after every known source.
const unrankedSource = 1000

// AllSources returns every known source in priority order.
func AllSources() []Source {
	return []Source{SourceWikipedia, SourceWikidata, SourceGooglePlaces, SourceOpenStreetMap}
}

// Rank returns the fixed merge priority of the source. Lower ranks win
// authoritative-field conflicts during deduplication.
func (s Source) Rank() int {
	switch s {
	case SourceWikipedia:
		return 1
	case SourceWikidata:
		return 2
	case SourceGooglePlaces:
		return 3
	case SourceOpenStreetMap:
		return 4
	default:
		return unrankedSource
	}
}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s.Rank() != unrankedSource
}

// Categories returns the POI categories the source can serve.
func (s Source) Categories() []Category {
	switch s {
	case SourceWikipedia, SourceWikidata:
		return []Category{CategoryAttraction}
	case SourceGooglePlaces:
		return []Category{CategoryCommercial}
	case SourceOpenStreetMap:
		return []Category{CategoryAttraction, CategoryCommercial}
	default:
		return nil
	}
}

// Supports reports whether the source serves the category.
func (s Source) Supports(c Category) bool {
	for _, sc := range s.Categories() {
		if sc == c {
			return true
		}
	}
	return false
}

// SortSources orders sources by rank, breaking ties by name.
func SortSources(sources []Source) {
	sort.SliceStable(sources, func(i, j int) bool {
		ri, rj := sources[i].Rank(), sources[j].Rank()
		if ri != rj {
			return ri < rj
		}
		return sources[i] < sources[j]
	})
}

// UnionSources returns the sorted set union of a and b.
func UnionSources(a, b []Source) []Source {
	seen := make(map[Source]struct{}, len(a)+len(b))
	out := make([]Source, 0, len(a)+len(b))
	for _, list := range [][]Source{a, b} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	SortSources(out)
	return out
}

// BestRank returns the lowest rank among sources.
func BestRank(sources []Source) int {
	best := unrankedSource
	for _, s := range sources {
		if r := s.Rank(); r < best {
			best = r
		}
	}
	return best
}
