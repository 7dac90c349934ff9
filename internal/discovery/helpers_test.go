// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/poiscope/internal/cache"
	"github.com/tomtom215/poiscope/internal/models"
)

var (
	originParis  = models.Location{ID: "paris", Name: "Paris", Latitude: 48.8584, Longitude: 2.2945}
	originLondon = models.Location{ID: "london", Name: "London", Latitude: 51.5007, Longitude: -0.1246}

	errProviderDown = errors.New("provider down")
)

// mockAdapter records every call and delegates to fn.
type mockAdapter struct {
	source models.Source
	fn     func(ctx context.Context, origin models.Location, call int, radius float64) ([]models.POI, error)

	calls atomic.Int32
	mu    sync.Mutex
	radii []float64
}

func (m *mockAdapter) Source() models.Source {
	return m.source
}

func (m *mockAdapter) Fetch(ctx context.Context, origin models.Location, radius float64, _ []models.POIType) ([]models.POI, error) {
	n := int(m.calls.Add(1))
	m.mu.Lock()
	m.radii = append(m.radii, radius)
	m.mu.Unlock()
	if m.fn == nil {
		return nil, nil
	}
	return m.fn(ctx, origin, n, radius)
}

func (m *mockAdapter) Radii() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.radii...)
}

func staticAdapter(source models.Source, pois ...models.POI) *mockAdapter {
	return &mockAdapter{
		source: source,
		fn: func(context.Context, models.Location, int, float64) ([]models.POI, error) {
			return models.ClonePOIs(pois), nil
		},
	}
}

func failingAdapter(source models.Source) *mockAdapter {
	return &mockAdapter{
		source: source,
		fn: func(context.Context, models.Location, int, float64) ([]models.POI, error) {
			return nil, errProviderDown
		},
	}
}

func testPOI(id, name string, typ models.POIType, score int, lat, lon float64, sources ...models.Source) models.POI {
	return models.POI{
		ID:              id,
		Name:            name,
		Type:            typ,
		Category:        typ.Category(),
		Latitude:        lat,
		Longitude:       lon,
		Sources:         sources,
		NotabilityScore: score,
	}
}

func testRetry() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:      3,
		MinRadiusMeters:  1000,
		RadiusStepMeters: 1500,
		BackoffStep:      time.Millisecond,
		AttemptTimeout:   2 * time.Second,
	}
}

func testSettings(sources ...models.Source) models.Settings {
	s := models.DefaultSettings(5000)
	if len(sources) > 0 {
		s.EnabledSources = sources
	}
	return s
}

// recorder is an Observer that keeps every snapshot.
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
	ch    chan Snapshot
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Snapshot, 256)}
}

func (r *recorder) OnSnapshot(s Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
	select {
	case r.ch <- s:
	default:
	}
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func (r *recorder) waitFor(t *testing.T, match func(Snapshot) bool) Snapshot {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case s := <-r.ch:
			if match(s) {
				return s
			}
		case <-timeout:
			t.Fatal("timed out waiting for snapshot")
			return Snapshot{}
		}
	}
}

func completeFor(epoch uint64) func(Snapshot) bool {
	return func(s Snapshot) bool {
		return s.Epoch == epoch && s.Phase.Terminal()
	}
}

func newTestEngine(t *testing.T, settings models.Settings, adapters ...SourceAdapter) (*Engine, *recorder) {
	t.Helper()
	deps := EngineDeps{
		Settings: StaticSettings(settings),
		Retry:    testRetry(),
		Results:  cache.NewResultCache(4),
		Logger:   zerolog.Nop(),
	}
	deps.Adapters = adapters
	e, err := NewEngine(deps)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)

	rec := newRecorder()
	e.Subscribe(rec)
	return e, rec
}

func ids(pois []models.POI) []string {
	out := make([]string, len(pois))
	for i := range pois {
		out[i] = pois[i].ID
	}
	return out
}
