// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/models"
	"github.com/tomtom215/poiscope/internal/settings"
)

// ===================================================================================================
// generateETag Tests
// ===================================================================================================

func TestGenerateETag_Helpers(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty data", []byte{}},
		{"simple string", []byte("hello world")},
		{"json data", []byte(`{"key": "value", "count": 123}`)},
		{"binary data", []byte{0x00, 0xFF, 0x55, 0xAA}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			etag := generateETag(tt.input)
			if etag == "" {
				t.Error("generateETag() returned empty string")
			}
			if etag2 := generateETag(tt.input); etag != etag2 {
				t.Errorf("generateETag() is not deterministic: %s != %s", etag, etag2)
			}
		})
	}

	t.Run("different inputs produce different ETags", func(t *testing.T) {
		if generateETag([]byte("hello")) == generateETag([]byte("world")) {
			t.Error("Different inputs produced the same ETag")
		}
	})
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"line\nbreak", `line\x0abreak`},
		{"tab\there", `tab\x09here`},
		{"Musée", "Musée"},
	}

	for _, tt := range tests {
		if got := sanitizeLogValue(tt.input); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// ===================================================================================================
// respondJSON / respondError Tests
// ===================================================================================================

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response *models.APIResponse
	}{
		{
			name:     "success response",
			status:   http.StatusOK,
			response: &models.APIResponse{Status: "success", Data: map[string]string{"key": "value"}},
		},
		{
			name:   "error response",
			status: http.StatusBadRequest,
			response: &models.APIResponse{
				Status: "error",
				Error:  &models.APIError{Code: "TEST_ERROR", Message: "test message"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondJSON(w, tt.status, tt.response)

			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got %q", ct)
			}
			if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
				t.Errorf("Cache-Control = %q, want no-store", cc)
			}
			if etag := w.Header().Get("ETag"); etag == "" {
				t.Error("Expected ETag header to be set")
			}

			var decoded models.APIResponse
			if err := json.NewDecoder(w.Body).Decode(&decoded); err != nil {
				t.Fatalf("Failed to decode response body: %v", err)
			}
			if decoded.Status != tt.response.Status {
				t.Errorf("Expected status %q, got %q", tt.response.Status, decoded.Status)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	respondError(w, r, http.StatusBadGateway, CodeUpstream, "Upstream provider request failed", errors.New("boom"))

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}

	var decoded models.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	if decoded.Status != "error" {
		t.Errorf("Expected status 'error', got %q", decoded.Status)
	}
	if decoded.Error == nil || decoded.Error.Code != CodeUpstream {
		t.Errorf("error = %+v, want %s", decoded.Error, CodeUpstream)
	}
	// The wrapped cause is logged, never sent to the client.
	if strings.Contains(w.Body.String(), "boom") {
		t.Error("internal error text leaked into the response")
	}
}

func TestRespondDiscoveryError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid origin", fmt.Errorf("%w: 99,0", discovery.ErrInvalidOrigin), http.StatusBadRequest, CodeValidation},
		{"invalid category", discovery.ErrInvalidCategory, http.StatusBadRequest, CodeValidation},
		{"type category mismatch", fmt.Errorf("%w: museum", settings.ErrTypeCategoryMismatch), http.StatusBadRequest, CodeValidation},
		{"radius below minimum", fmt.Errorf("%w: 600 < 1000 meters", settings.ErrRadiusBelowMinimum), http.StatusBadRequest, CodeValidation},
		{"no previous request", discovery.ErrNoPreviousRequest, http.StatusConflict, CodeConflict},
		{"enrichment unavailable", discovery.ErrEnrichmentUnavailable, http.StatusNotFound, CodeNotFound},
		{"engine closed", discovery.ErrEngineClosed, http.StatusServiceUnavailable, CodeUnavailable},
		{"deadline", fmt.Errorf("enrich x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeUpstream},
		{"other", errors.New("HTTP 503"), http.StatusBadGateway, CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/v1/discover", nil)
			respondDiscoveryError(w, r, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var decoded models.APIResponse
			if err := json.NewDecoder(w.Body).Decode(&decoded); err != nil {
				t.Fatal(err)
			}
			if decoded.Error == nil || decoded.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", decoded.Error, tt.wantCode)
			}
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"text":"museum"}`, false},
		{"empty", "", true},
		{"unknown field", `{"text":"a","extra":1}`, true},
		{"trailing object", `{"text":"a"}{"text":"b"}`, true},
		{"oversized", `{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPut, "/api/v1/filter/search", strings.NewReader(tt.body))

			var dst SearchRequest
			err := decodeJSONBody(w, r, &dst)
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeJSONBody() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
