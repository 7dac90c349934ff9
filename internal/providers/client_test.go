// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/poiscope/internal/metrics"
	"github.com/tomtom215/poiscope/internal/models"
)

func TestHTTPClientSetsHeadersAndDecodes(t *testing.T) {
	var gotAgent, gotAccept string
	server, client := newTestServer(t, models.SourceWikipedia, func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": 42}`))
	})

	var out struct {
		Value int `json:"value"`
	}
	if err := client.getJSON(context.Background(), server.URL, nil, nil, &out); err != nil {
		t.Fatalf("getJSON() error = %v", err)
	}
	if out.Value != 42 {
		t.Errorf("Value = %d, want 42", out.Value)
	}
	if gotAgent != "poiscope-test/1.0" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestHTTPClientStatusError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		temporary bool
	}{
		{"server error", http.StatusBadGateway, true},
		{"rate limited", http.StatusTooManyRequests, true},
		{"bad request", http.StatusBadRequest, false},
		{"forbidden", http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, client := newTestServer(t, models.SourceOpenStreetMap, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("upstream said no"))
			})

			before := testutil.ToFloat64(metrics.ProviderHTTPResponses.WithLabelValues("openstreetmap", strconv.Itoa(tt.status)))
			err := client.getJSON(context.Background(), server.URL, nil, nil, &struct{}{})

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("err = %v, want *StatusError", err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.status)
			}
			if statusErr.Temporary() != tt.temporary {
				t.Errorf("Temporary() = %v, want %v", statusErr.Temporary(), tt.temporary)
			}
			if !strings.Contains(statusErr.Error(), "upstream said no") {
				t.Errorf("Error() = %q, want body included", statusErr.Error())
			}
			after := testutil.ToFloat64(metrics.ProviderHTTPResponses.WithLabelValues("openstreetmap", strconv.Itoa(tt.status)))
			if after-before != 1 {
				t.Errorf("response counter delta = %v, want 1", after-before)
			}
		})
	}
}

func TestHTTPClientRejectsOversizedResponse(t *testing.T) {
	server, client := newTestServer(t, models.SourceWikidata, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"pad":"`))
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseSize)))
		_, _ = w.Write([]byte(`"}`))
	})

	err := client.getJSON(context.Background(), server.URL, nil, nil, &struct{}{})
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Errorf("err = %v, want ErrResponseTooLarge", err)
	}
}

func TestHTTPClientDecodeError(t *testing.T) {
	server, client := newTestServer(t, models.SourceWikidata, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	err := client.getJSON(context.Background(), server.URL, nil, nil, &struct{}{})
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Errorf("err = %v, want decode error", err)
	}
}

func TestHTTPClientHonorsContext(t *testing.T) {
	server, client := newTestServer(t, models.SourceWikipedia, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := client.getJSON(ctx, server.URL, nil, nil, &struct{}{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
