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

	"github.com/tomtom215/poiscope/internal/models"
)

const wikiGeoFixture = `{
  "batchcomplete": true,
  "query": {
    "pages": [
      {
        "pageid": 9232,
        "title": "Eiffel Tower",
        "length": 180000,
        "description": "Wrought-iron lattice tower in Paris, France",
        "coordinates": [{"lat": 48.858222, "lon": 2.2945, "primary": true, "globe": "earth"}],
        "pageprops": {"wikibase_item": "Q243"},
        "thumbnail": {"source": "https://upload.example/eiffel.jpg", "width": 320, "height": 480}
      },
      {
        "pageid": 22989,
        "title": "Louvre",
        "length": 95000,
        "description": "Art museum in Paris, France",
        "coordinates": [{"lat": 48.861111, "lon": 2.336389}],
        "pageprops": {"wikibase_item": "Q19675"}
      },
      {
        "pageid": 1,
        "title": "No coordinates",
        "description": "Something"
      }
    ]
  }
}`

func TestWikipediaAdapterFetch(t *testing.T) {
	var gotQuery map[string]string
	server, client := newTestServer(t, models.SourceWikipedia, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/w/api.php" {
			t.Errorf("path = %q, want /w/api.php", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"generator": q.Get("generator"),
			"ggsradius": q.Get("ggsradius"),
			"ggscoord":  q.Get("ggscoord"),
		}
		_, _ = w.Write([]byte(wikiGeoFixture))
	})

	adapter := NewWikipediaAdapter(server.URL, "en", client)
	pois, err := adapter.Fetch(context.Background(), originParis, 25000, allTypes(models.CategoryAttraction))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotQuery["generator"] != "geosearch" {
		t.Errorf("generator = %q", gotQuery["generator"])
	}
	if gotQuery["ggsradius"] != "10000" {
		t.Errorf("ggsradius = %q, want clamped to 10000", gotQuery["ggsradius"])
	}
	if gotQuery["ggscoord"] != "48.856600|2.352200" {
		t.Errorf("ggscoord = %q", gotQuery["ggscoord"])
	}

	if len(pois) != 2 {
		t.Fatalf("got %d POIs, want 2", len(pois))
	}
	eiffel := pois[0]
	if eiffel.ID != "wikipedia:en:Eiffel_Tower" {
		t.Errorf("ID = %q", eiffel.ID)
	}
	if eiffel.Type != models.TypeMonument {
		t.Errorf("Type = %q, want monument", eiffel.Type)
	}
	if eiffel.Refs.WikidataID != "Q243" || eiffel.Refs.WikipediaTitle != "Eiffel Tower" || eiffel.Refs.WikipediaLang != "en" {
		t.Errorf("Refs = %+v", eiffel.Refs)
	}
	if deref(eiffel.ImageURL) != "https://upload.example/eiffel.jpg" {
		t.Errorf("ImageURL = %q", deref(eiffel.ImageURL))
	}
	if deref(eiffel.ArticleURL) != server.URL+"/wiki/Eiffel_Tower" {
		t.Errorf("ArticleURL = %q", deref(eiffel.ArticleURL))
	}
	if eiffel.NotabilityScore <= pois[1].NotabilityScore {
		t.Errorf("longer article should score higher: %d vs %d", eiffel.NotabilityScore, pois[1].NotabilityScore)
	}
	if pois[1].Type != models.TypeMuseum {
		t.Errorf("Louvre type = %q, want museum", pois[1].Type)
	}
}

func TestWikipediaAdapterFiltersDisabledTypes(t *testing.T) {
	server, client := newTestServer(t, models.SourceWikipedia, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(wikiGeoFixture))
	})

	adapter := NewWikipediaAdapter(server.URL, "en", client)
	pois, err := adapter.Fetch(context.Background(), originParis, 5000, []models.POIType{models.TypeMuseum})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(pois) != 1 || pois[0].Name != "Louvre" {
		t.Errorf("got %v, want only the Louvre", pois)
	}
}

func TestWikipediaAdapterAPIError(t *testing.T) {
	server, client := newTestServer(t, models.SourceWikipedia, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"code": "badcoord", "info": "Invalid coordinate provided"}}`))
	})

	adapter := NewWikipediaAdapter(server.URL, "en", client)
	_, err := adapter.Fetch(context.Background(), originParis, 5000, allTypes(models.CategoryAttraction))
	if !errors.Is(err, ErrAPI) {
		t.Errorf("err = %v, want ErrAPI", err)
	}
}
