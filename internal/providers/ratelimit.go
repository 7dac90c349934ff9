// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/metrics"
	"github.com/tomtom215/poiscope/internal/models"
)

// limitedAdapter throttles outbound calls to respect provider usage policies.
type limitedAdapter struct {
	next    discovery.SourceAdapter
	limiter *rate.Limiter
}

// WithRateLimit limits next to perSecond calls with the given burst. A
// non-positive rate returns next unchanged.
func WithRateLimit(next discovery.SourceAdapter, perSecond float64, burst int) discovery.SourceAdapter {
	if perSecond <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &limitedAdapter{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Source implements discovery.SourceAdapter.
func (l *limitedAdapter) Source() models.Source {
	return l.next.Source()
}

// Fetch waits for a token, honoring ctx, then calls the wrapped adapter.
func (l *limitedAdapter) Fetch(ctx context.Context, origin models.Location, radiusMeters float64, enabledTypes []models.POIType) ([]models.POI, error) {
	start := time.Now()
	err := l.limiter.Wait(ctx)
	metrics.AdapterRateLimitWait.WithLabelValues(string(l.next.Source())).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s rate limit wait: %w", l.next.Source(), err)
	}
	return l.next.Fetch(ctx, origin, radiusMeters, enabledTypes)
}
