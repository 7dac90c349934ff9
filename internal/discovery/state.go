// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"time"

	"github.com/tomtom215/poiscope/internal/models"
)

// Phase is the loading phase of the engine.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhasePhase1Loading Phase = "phase1_loading"
	PhasePhase1Partial Phase = "phase1_partial"
	PhasePhase2Loading Phase = "phase2_loading"
	PhaseComplete      Phase = "complete"
	PhaseError         Phase = "error"
)

// Loading reports whether a request is still in flight.
func (p Phase) Loading() bool {
	return p == PhasePhase1Loading || p == PhasePhase1Partial || p == PhasePhase2Loading
}

// Terminal reports whether the phase ends a request.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseError
}

// Snapshot is an immutable view of the engine state. Observers receive a
// shared copy and must not modify it.
type Snapshot struct {
	Phase    Phase            `json:"phase"`
	Epoch    uint64           `json:"epoch"`
	Origin   *models.Location `json:"origin,omitempty"`
	Category models.Category  `json:"category,omitempty"`

	// Ranked holds every POI of an enabled type in display order, Filtered
	// the subset matching the search text and Display its head.
	Ranked   []models.POI `json:"ranked"`
	Filtered []models.POI `json:"filtered"`
	Display  []models.POI `json:"display"`

	TypeFilter []models.POIType `json:"type_filter,omitempty"`
	SearchText string           `json:"search_text,omitempty"`

	Error            *DiscoveryError       `json:"error,omitempty"`
	SourceSuccess    map[models.Source]int `json:"source_success,omitempty"` // POIs per successful source
	Reports          []SourceReport        `json:"reports,omitempty"`
	FromCache        bool                  `json:"from_cache"`
	AllSourcesFailed bool                  `json:"all_sources_failed"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() Snapshot {
	out := *s
	if s.Origin != nil {
		o := *s.Origin
		out.Origin = &o
	}
	out.Ranked = models.ClonePOIs(s.Ranked)
	out.Filtered = models.ClonePOIs(s.Filtered)
	out.Display = models.ClonePOIs(s.Display)
	out.TypeFilter = append([]models.POIType(nil), s.TypeFilter...)
	out.Reports = append([]SourceReport(nil), s.Reports...)
	if s.SourceSuccess != nil {
		out.SourceSuccess = make(map[models.Source]int, len(s.SourceSuccess))
		for k, v := range s.SourceSuccess {
			out.SourceSuccess[k] = v
		}
	}
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	return out
}

// FindPOI returns the ranked POI with the given ID.
func (s *Snapshot) FindPOI(id string) (models.POI, bool) {
	for i := range s.Ranked {
		if s.Ranked[i].ID == id {
			return s.Ranked[i].Clone(), true
		}
	}
	return models.POI{}, false
}

// Observer receives every published snapshot.
type Observer interface {
	OnSnapshot(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

// OnSnapshot implements Observer.
func (f ObserverFunc) OnSnapshot(s Snapshot) {
	f(s)
}

// Subscription is a registered observer.
type Subscription struct {
	id       uint64
	engine   *Engine
	observer Observer
}

// Unsubscribe stops delivery to the observer. It is safe to call more than
// once and from within the observer.
func (s *Subscription) Unsubscribe() {
	s.engine.unsubscribe(s.id)
}

// engineState is the mutable state behind the published snapshot.
type engineState struct {
	snap       Snapshot
	req        *Request     // request whose results are shown
	base       []models.POI // merged list the filters are applied to
	typeFilter []models.POIType
	searchText string
}

func successCounts(reports []SourceReport) map[models.Source]int {
	out := make(map[models.Source]int, len(reports))
	for _, r := range reports {
		if r.Succeeded {
			out[r.Source] += r.POIs
		}
	}
	return out
}

func filterByText(ranked []models.POI, text string) []models.POI {
	if FoldName(text) == "" {
		return ranked
	}
	out := make([]models.POI, 0, len(ranked))
	for i := range ranked {
		p := &ranked[i]
		desc := ""
		if p.Description != nil {
			desc = *p.Description
		}
		if MatchesQuery(text, p.Name, desc) {
			out = append(out, *p)
		}
	}
	return out
}
