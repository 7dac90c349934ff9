// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/poiscope/internal/models"
)

var originParis = models.Location{ID: "paris", Name: "Paris", Latitude: 48.8566, Longitude: 2.3522}

// mockAdapter counts calls and returns err or a single POI.
type mockAdapter struct {
	source models.Source
	err    error
	calls  atomic.Int32
}

func (m *mockAdapter) Source() models.Source {
	return m.source
}

func (m *mockAdapter) Fetch(_ context.Context, _ models.Location, _ float64, _ []models.POIType) ([]models.POI, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return []models.POI{{ID: "mock:1", Name: "Mock", Type: models.TypeMuseum}}, nil
}

// newTestServer serves handler and returns a client for source pointed at it.
func newTestServer(t *testing.T, source models.Source, handler http.HandlerFunc) (*httptest.Server, *HTTPClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewHTTPClient(source, "poiscope-test/1.0", 5*time.Second)
}

func allTypes(c models.Category) []models.POIType {
	return models.DefaultTypeOrder(c)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
