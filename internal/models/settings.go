// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package models

// Settings is the per-call discovery configuration supplied by the settings
// collaborator. The engine never mutates a Settings value it receives.
type Settings struct {
	EnabledSources []Source               `json:"enabled_sources" validate:"dive,source"`
	EnabledTypes   map[Category][]POIType `json:"enabled_types" validate:"dive,keys,category,endkeys,dive,poitype"`
	TypePriority   map[Category][]POIType `json:"type_priority,omitempty" validate:"dive,keys,category,endkeys,dive,poitype"`
	RadiusMeters   float64                `json:"radius_meters" validate:"gt=0,lte=50000"`
}

// DefaultSettings enables every source and type with default ordering.
func DefaultSettings(radiusMeters float64) Settings {
	s := Settings{
		EnabledSources: AllSources(),
		EnabledTypes:   make(map[Category][]POIType),
		TypePriority:   make(map[Category][]POIType),
		RadiusMeters:   radiusMeters,
	}
	for _, c := range AllCategories() {
		s.EnabledTypes[c] = DefaultTypeOrder(c)
		s.TypePriority[c] = DefaultTypeOrder(c)
	}
	return s
}

// SourcesFor returns the enabled sources that serve the category, in rank order.
func (s *Settings) SourcesFor(c Category) []Source {
	out := make([]Source, 0, len(s.EnabledSources))
	seen := make(map[Source]bool, len(s.EnabledSources))
	for _, src := range s.EnabledSources {
		if seen[src] || !src.Supports(c) {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	SortSources(out)
	return out
}

// TypesFor returns the enabled types that belong to the category.
func (s *Settings) TypesFor(c Category) []POIType {
	out := make([]POIType, 0, len(s.EnabledTypes[c]))
	for _, t := range s.EnabledTypes[c] {
		if t.Category() == c {
			out = append(out, t)
		}
	}
	return out
}

// PriorityFor returns the caller type ordering for the category.
func (s *Settings) PriorityFor(c Category) []POIType {
	return append([]POIType(nil), s.TypePriority[c]...)
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := Settings{
		EnabledSources: append([]Source(nil), s.EnabledSources...),
		EnabledTypes:   make(map[Category][]POIType, len(s.EnabledTypes)),
		TypePriority:   make(map[Category][]POIType, len(s.TypePriority)),
		RadiusMeters:   s.RadiusMeters,
	}
	for c, types := range s.EnabledTypes {
		out.EnabledTypes[c] = append([]POIType(nil), types...)
	}
	for c, types := range s.TypePriority {
		out.TypePriority[c] = append([]POIType(nil), types...)
	}
	return out
}
