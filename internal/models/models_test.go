// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package models

import (
	"math"
	"testing"
)

func TestSourceRank(t *testing.T) {
	t.Parallel()

	order := AllSources()
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("AllSources not in rank order: %s (%d) before %s (%d)",
				order[i-1], order[i-1].Rank(), order[i], order[i].Rank())
		}
	}

	if Source("bogus").Valid() {
		t.Error("unknown source should not be valid")
	}
	if !SourceWikipedia.Valid() {
		t.Error("wikipedia should be valid")
	}
}

func TestSourceSupports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source   Source
		category Category
		want     bool
	}{
		{SourceWikipedia, CategoryAttraction, true},
		{SourceWikipedia, CategoryCommercial, false},
		{SourceWikidata, CategoryAttraction, true},
		{SourceGooglePlaces, CategoryCommercial, true},
		{SourceGooglePlaces, CategoryAttraction, false},
		{SourceOpenStreetMap, CategoryAttraction, true},
		{SourceOpenStreetMap, CategoryCommercial, true},
	}

	for _, tt := range tests {
		if got := tt.source.Supports(tt.category); got != tt.want {
			t.Errorf("%s.Supports(%s) = %v, want %v", tt.source, tt.category, got, tt.want)
		}
	}
}

func TestUnionSources(t *testing.T) {
	t.Parallel()

	got := UnionSources(
		[]Source{SourceOpenStreetMap, SourceWikidata},
		[]Source{SourceWikipedia, SourceOpenStreetMap},
	)
	want := []Source{SourceWikipedia, SourceWikidata, SourceOpenStreetMap}

	if len(got) != len(want) {
		t.Fatalf("UnionSources() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnionSources()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPOITypeCategory(t *testing.T) {
	t.Parallel()

	for _, c := range AllCategories() {
		for _, typ := range DefaultTypeOrder(c) {
			if typ.Category() != c {
				t.Errorf("%s.Category() = %q, want %q", typ, typ.Category(), c)
			}
		}
	}
	if POIType("spaceport").Valid() {
		t.Error("unknown type should not be valid")
	}
}

func TestLocationKey(t *testing.T) {
	t.Parallel()

	withID := Location{ID: "paris", Latitude: 48.8566, Longitude: 2.3522}
	if withID.Key() != "paris" {
		t.Errorf("Key() = %q, want paris", withID.Key())
	}

	a := Location{Latitude: 48.85661, Longitude: 2.35221}
	b := Location{Latitude: 48.85659, Longitude: 2.35219}
	if a.Key() != b.Key() {
		t.Errorf("nearby origins should share a key: %q vs %q", a.Key(), b.Key())
	}
}

func TestDistanceMeters(t *testing.T) {
	t.Parallel()

	// Eiffel Tower records ~14m apart
	d := DistanceMeters(48.8584, 2.2945, 48.8583, 2.2946)
	if d <= 0 || d > 50 {
		t.Errorf("DistanceMeters() = %f, want between 0 and 50", d)
	}

	// Paris to London is roughly 344km
	d = DistanceMeters(48.8566, 2.3522, 51.5074, -0.1278)
	if math.Abs(d-343_500) > 2_000 {
		t.Errorf("Paris-London distance = %f, want ~343500", d)
	}

	if DistanceMeters(10, 10, 10, 10) != 0 {
		t.Error("distance to self should be zero")
	}
}

func TestValidCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, -180.5, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range tests {
		if got := ValidCoordinates(tt.lat, tt.lon); got != tt.want {
			t.Errorf("ValidCoordinates(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestExternalRefsShares(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b ExternalRefs
		want bool
	}{
		{"empty", ExternalRefs{}, ExternalRefs{}, false},
		{"same article", ExternalRefs{WikipediaTitle: "Eiffel_Tower", WikipediaLang: "en"}, ExternalRefs{WikipediaTitle: "Eiffel Tower"}, true},
		{"different language", ExternalRefs{WikipediaTitle: "Tour Eiffel", WikipediaLang: "fr"}, ExternalRefs{WikipediaTitle: "Tour Eiffel", WikipediaLang: "en"}, false},
		{"wikidata case", ExternalRefs{WikidataID: "q243"}, ExternalRefs{WikidataID: "Q243"}, true},
		{"place id", ExternalRefs{PlaceID: "abc"}, ExternalRefs{PlaceID: "abc"}, true},
		{"disjoint", ExternalRefs{WikidataID: "Q1"}, ExternalRefs{PlaceID: "Q1"}, false},
	}

	for _, tt := range tests {
		if got := tt.a.Shares(tt.b); got != tt.want {
			t.Errorf("%s: Shares() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPOIFillFrom(t *testing.T) {
	t.Parallel()

	rating := 4.5
	p := POI{ID: "w1", Name: "Eiffel Tower", Description: StringPtr("Iron tower")}
	o := POI{
		ID:          "o1",
		Name:        "Tour Eiffel",
		Description: StringPtr("lattice tower"),
		Website:     StringPtr("https://www.toureiffel.paris"),
		Rating:      &rating,
		Refs:        ExternalRefs{WikidataID: "Q243"},
	}

	p.FillFrom(&o)

	if *p.Description != "Iron tower" {
		t.Errorf("existing description overwritten: %q", *p.Description)
	}
	if p.Website == nil || *p.Website != "https://www.toureiffel.paris" {
		t.Errorf("website not filled: %v", p.Website)
	}
	if p.Rating == nil || *p.Rating != 4.5 {
		t.Errorf("rating not filled: %v", p.Rating)
	}
	if p.Refs.WikidataID != "Q243" {
		t.Errorf("refs not filled: %+v", p.Refs)
	}

	// filled pointers must not alias the donor
	*o.Website = "changed"
	if *p.Website == "changed" {
		t.Error("FillFrom aliased donor pointer")
	}
}

func TestPOICloneIsDeep(t *testing.T) {
	t.Parallel()

	p := POI{ID: "a", Sources: []Source{SourceWikipedia}, Description: StringPtr("x")}
	c := p.Clone()
	c.Sources[0] = SourceOpenStreetMap
	*c.Description = "y"

	if p.Sources[0] != SourceWikipedia || *p.Description != "x" {
		t.Error("Clone shares state with original")
	}
}

func TestPlaceKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		poi  POI
		want string
	}{
		{POI{ID: "g", Refs: ExternalRefs{PlaceID: "ChIJ", WikidataID: "Q1"}}, "place:ChIJ"},
		{POI{ID: "w", Refs: ExternalRefs{WikipediaTitle: "Louvre", WikipediaLang: "fr"}}, "wikipedia:fr:Louvre"},
		{POI{ID: "d", Refs: ExternalRefs{WikidataID: "q19675"}}, "wikidata:Q19675"},
		{POI{ID: "osm:node/1"}, "id:osm:node/1"},
	}
	for _, tt := range tests {
		if got := tt.poi.PlaceKey(); got != tt.want {
			t.Errorf("PlaceKey(%s) = %q, want %q", tt.poi.ID, got, tt.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	if ClampScore(-5) != 0 || ClampScore(150) != 100 || ClampScore(42) != 42 {
		t.Error("ClampScore did not bound score to 0..100")
	}
}

func TestSettingsSourcesFor(t *testing.T) {
	t.Parallel()

	s := Settings{
		EnabledSources: []Source{SourceOpenStreetMap, SourceGooglePlaces, SourceWikipedia, SourceWikipedia},
	}

	attraction := s.SourcesFor(CategoryAttraction)
	if len(attraction) != 2 || attraction[0] != SourceWikipedia || attraction[1] != SourceOpenStreetMap {
		t.Errorf("SourcesFor(attraction) = %v", attraction)
	}

	commercial := s.SourcesFor(CategoryCommercial)
	if len(commercial) != 2 || commercial[0] != SourceGooglePlaces {
		t.Errorf("SourcesFor(commercial) = %v", commercial)
	}
}

func TestSettingsTypesForDropsForeignTypes(t *testing.T) {
	t.Parallel()

	s := Settings{EnabledTypes: map[Category][]POIType{
		CategoryAttraction: {TypeMuseum, TypeCafe, TypePark},
	}}
	got := s.TypesFor(CategoryAttraction)
	if len(got) != 2 || got[0] != TypeMuseum || got[1] != TypePark {
		t.Errorf("TypesFor() = %v, want [museum park]", got)
	}
	if len(s.TypesFor(CategoryCommercial)) != 0 {
		t.Error("commercial types should be empty")
	}
}

func TestSettingsClone(t *testing.T) {
	t.Parallel()

	s := DefaultSettings(2000)
	c := s.Clone()
	c.EnabledSources[0] = SourceOpenStreetMap
	c.EnabledTypes[CategoryAttraction][0] = TypeZoo

	if s.EnabledSources[0] != SourceWikipedia {
		t.Error("clone shares EnabledSources")
	}
	if s.EnabledTypes[CategoryAttraction][0] != TypeMonument {
		t.Error("clone shares EnabledTypes")
	}
}

func TestEnrichmentApply(t *testing.T) {
	t.Parallel()

	level := 2
	p := POI{ID: "g1", Name: "Cafe", Website: StringPtr("https://existing")}
	e := &Enrichment{
		Source:     SourceGooglePlaces,
		Website:    StringPtr("https://other"),
		Phone:      StringPtr("+33 1 23"),
		PriceLevel: &level,
	}

	got := e.Apply(p)
	if *got.Website != "https://existing" {
		t.Errorf("enrichment overwrote website: %q", *got.Website)
	}
	if got.Phone == nil || *got.Phone != "+33 1 23" {
		t.Errorf("phone not applied: %v", got.Phone)
	}
	if got.PriceLevel == nil || *got.PriceLevel != 2 {
		t.Errorf("price level not applied: %v", got.PriceLevel)
	}
	if p.Phone != nil {
		t.Error("Apply mutated the input POI")
	}

	var nilEnrichment *Enrichment
	if nilEnrichment.Apply(p).Name != "Cafe" {
		t.Error("nil enrichment should return the POI unchanged")
	}
}
