// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poiscope/internal/models"
)

const googleNearbyFixture = `{
  "places": [
    {
      "id": "ChIJabc",
      "displayName": {"text": "Boulangerie Utopie", "languageCode": "fr"},
      "location": {"latitude": 48.8634, "longitude": 2.3703},
      "types": ["bakery", "food", "store"],
      "primaryType": "bakery",
      "rating": 4.7,
      "userRatingCount": 2400,
      "priceLevel": "PRICE_LEVEL_INEXPENSIVE",
      "regularOpeningHours": {"weekdayDescriptions": ["Monday: Closed", "Tuesday: 7:00 AM – 8:00 PM"]}
    },
    {
      "id": "ChIJdef",
      "displayName": {"text": "Parking"},
      "location": {"latitude": 48.86, "longitude": 2.37},
      "types": ["parking"]
    }
  ]
}`

func TestGooglePlacesAdapterFetch(t *testing.T) {
	var gotBody googleNearbyRequest
	server, client := newTestServer(t, models.SourceGooglePlaces, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != googleNearbyPath {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Errorf("api key header = %q", r.Header.Get("X-Goog-Api-Key"))
		}
		if r.Header.Get("X-Goog-FieldMask") != googleSearchMask {
			t.Errorf("field mask = %q", r.Header.Get("X-Goog-FieldMask"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(googleNearbyFixture))
	})

	adapter := NewGooglePlacesAdapter(server.URL, "test-key", "fr", client)
	pois, err := adapter.Fetch(context.Background(), originParis, 80000,
		[]models.POIType{models.TypeBakery, models.TypeCafe})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := []string{"bakery", "cafe", "coffee_shop"}
	if len(gotBody.IncludedTypes) != len(want) {
		t.Fatalf("includedTypes = %v, want %v", gotBody.IncludedTypes, want)
	}
	for i := range want {
		if gotBody.IncludedTypes[i] != want[i] {
			t.Errorf("includedTypes[%d] = %q, want %q", i, gotBody.IncludedTypes[i], want[i])
		}
	}
	if gotBody.LocationRestriction.Circle.Radius != googleMaxRadius {
		t.Errorf("radius = %v, want clamped to %d", gotBody.LocationRestriction.Circle.Radius, googleMaxRadius)
	}
	if gotBody.LanguageCode != "fr" || gotBody.MaxResultCount != googleMaxResults {
		t.Errorf("languageCode = %q, maxResultCount = %d", gotBody.LanguageCode, gotBody.MaxResultCount)
	}

	if len(pois) != 1 {
		t.Fatalf("got %d POIs, want 1 (parking has no mapped type)", len(pois))
	}
	p := pois[0]
	if p.ID != "googleplaces:ChIJabc" || p.Refs.PlaceID != "ChIJabc" || p.Type != models.TypeBakery {
		t.Errorf("poi = %s %s %s", p.ID, p.Refs.PlaceID, p.Type)
	}
	if p.Rating == nil || *p.Rating != 4.7 {
		t.Errorf("Rating = %v", p.Rating)
	}
	if p.PriceLevel == nil || *p.PriceLevel != 1 {
		t.Errorf("PriceLevel = %v, want 1", p.PriceLevel)
	}
	if deref(p.OpeningHours) != "Monday: Closed; Tuesday: 7:00 AM – 8:00 PM" {
		t.Errorf("OpeningHours = %q", deref(p.OpeningHours))
	}
	if p.NotabilityScore == 0 {
		t.Error("NotabilityScore should reflect the rating count")
	}
}

func TestGooglePlacesAdapterMissingKey(t *testing.T) {
	adapter := NewGooglePlacesAdapter("http://127.0.0.1:1", "", "en", NewHTTPClient(models.SourceGooglePlaces, "test", 0))
	_, err := adapter.Fetch(context.Background(), originParis, 1000, allTypes(models.CategoryCommercial))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestParsePriceLevel(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"PRICE_LEVEL_FREE", 0, true},
		{"PRICE_LEVEL_MODERATE", 2, true},
		{"PRICE_LEVEL_VERY_EXPENSIVE", 4, true},
		{"PRICE_LEVEL_UNSPECIFIED", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got := parsePriceLevel(tt.in)
		if (got != nil) != tt.ok || (got != nil && *got != tt.want) {
			t.Errorf("parsePriceLevel(%q) = %v, want %d (ok=%v)", tt.in, got, tt.want, tt.ok)
		}
	}
}
