// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordAdapterCall(t *testing.T) {
	tests := []struct {
		name   string
		source string
		err    error
		result string
	}{
		{"success", "test-adapter-ok", nil, "success"},
		{"failure", "test-adapter-fail", errors.New("timeout"), "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(AdapterRequests.WithLabelValues(tt.source, tt.result))
			RecordAdapterCall(tt.source, 25*time.Millisecond, tt.err)
			after := testutil.ToFloat64(AdapterRequests.WithLabelValues(tt.source, tt.result))

			if after-before != 1 {
				t.Errorf("expected counter to increase by 1, got %f", after-before)
			}
		})
	}
}

func TestRecordDiscoveryObservesResultSize(t *testing.T) {
	RecordDiscovery("test-category", "complete", time.Second, 12)
	RecordDiscovery("test-category", "stale", time.Second, 0)

	if got := testutil.ToFloat64(DiscoveryRequests.WithLabelValues("test-category", "complete")); got != 1 {
		t.Errorf("complete counter = %f, want 1", got)
	}

	m := &dto.Metric{}
	hist, ok := DiscoveryResultSize.WithLabelValues("test-category").(interface{ Write(*dto.Metric) error })
	if !ok {
		t.Fatal("histogram does not implement Write")
	}
	if err := hist.Write(m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	// stale results are not published, so only one observation
	if got := m.GetHistogram().GetSampleCount(); got != 1 {
		t.Errorf("result size samples = %d, want 1", got)
	}
	if got := m.GetHistogram().GetSampleSum(); got != 12 {
		t.Errorf("result size sum = %f, want 12", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %f, want %f", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %f, want %f", got, before)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	RecordAPIRequest("POST", "/api/v1/discover-test", "200", 10*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/discover-test", "200")); got != 1 {
		t.Errorf("api requests = %f, want 1", got)
	}
}
