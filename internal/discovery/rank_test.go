// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"reflect"
	"testing"

	"github.com/tomtom215/poiscope/internal/models"
)

func rankFixture() []models.POI {
	return []models.POI{
		testPOI("m1", "Museum A", models.TypeMuseum, 50, 0, 0, wp),
		testPOI("p1", "Park A", models.TypePark, 90, 0, 0, osm),
		testPOI("mo1", "Monument A", models.TypeMonument, 10, 0, 0, wp),
		testPOI("m2", "Museum B", models.TypeMuseum, 80, 0, 0, wd),
		testPOI("mo2", "Monument B", models.TypeMonument, 10, 0, 0, osm),
		testPOI("c1", "Castle A", models.TypeCastle, 70, 0, 0, wp),
		testPOI("m3", "Museum C", models.TypeMuseum, 50, 0, 0, osm),
	}
}

func TestRankOrdering(t *testing.T) {
	r := NewRanker()
	all := models.DefaultTypeOrder(models.CategoryAttraction)

	tests := []struct {
		name     string
		enabled  []models.POIType
		priority []models.POIType
		want     []string
	}{
		{
			name:    "default order",
			enabled: all,
			want:    []string{"mo1", "mo2", "m2", "m1", "m3", "c1", "p1"},
		},
		{
			name:     "caller priority first",
			enabled:  all,
			priority: []models.POIType{models.TypePark, models.TypeCastle},
			want:     []string{"p1", "c1", "mo1", "mo2", "m2", "m1", "m3"},
		},
		{
			name:    "disabled types dropped",
			enabled: []models.POIType{models.TypeMuseum, models.TypePark},
			want:    []string{"m2", "m1", "m3", "p1"},
		},
		{
			name:    "nothing enabled",
			enabled: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(r.Rank(rankFixture(), tt.enabled, tt.priority, models.CategoryAttraction))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankDeterministic(t *testing.T) {
	r := NewRanker()
	all := models.DefaultTypeOrder(models.CategoryAttraction)
	priority := []models.POIType{models.TypeMuseum}

	first := r.Rank(rankFixture(), all, priority, models.CategoryAttraction)
	for i := 0; i < 20; i++ {
		got := r.Rank(rankFixture(), all, priority, models.CategoryAttraction)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Rank() = %v, want %v", i, ids(got), ids(first))
		}
	}
}

func TestRankUnknownTypesLast(t *testing.T) {
	r := NewRanker()
	pois := []models.POI{
		testPOI("x1", "Zeta", models.POIType("zeppelin"), 99, 0, 0, osm),
		testPOI("x2", "Alpha", models.POIType("aquarium"), 1, 0, 0, osm),
		testPOI("mo1", "Monument", models.TypeMonument, 0, 0, 0, wp),
	}
	enabled := []models.POIType{"zeppelin", "aquarium", models.TypeMonument}

	got := ids(r.Rank(pois, enabled, nil, models.CategoryAttraction))
	want := []string{"mo1", "x2", "x1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestRankDoesNotShareInput(t *testing.T) {
	r := NewRanker()
	in := rankFixture()
	out := r.Rank(in, models.DefaultTypeOrder(models.CategoryAttraction), nil, models.CategoryAttraction)
	out[0].Name = "changed"
	for _, p := range in {
		if p.Name == "changed" {
			t.Fatal("Rank() output aliases its input")
		}
	}
}

func TestDisplay(t *testing.T) {
	list := rankFixture()
	tests := []struct {
		k    int
		want int
	}{
		{3, 3},
		{0, len(list)},
		{-1, len(list)},
		{100, len(list)},
	}
	for _, tt := range tests {
		if got := Display(list, tt.k); len(got) != tt.want {
			t.Errorf("Display(k=%d) len = %d, want %d", tt.k, len(got), tt.want)
		}
	}
}
