// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"context"
	"math"
	"time"
)

// RetryPolicy controls how a failing adapter is retried. Each retry shrinks
// the search radius, which lowers provider load and response size, and waits
// a linearly growing backoff.
type RetryPolicy struct {
	MaxAttempts      int
	MinRadiusMeters  float64
	RadiusStepMeters float64
	BackoffStep      time.Duration
	AttemptTimeout   time.Duration
}

// DefaultRetryPolicy returns the production retry settings.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:      3,
		MinRadiusMeters:  1000,
		RadiusStepMeters: 1500,
		BackoffStep:      500 * time.Millisecond,
		AttemptTimeout:   10 * time.Second,
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// InitialRadius returns the radius of the first attempt. A requested radius
// below MinRadiusMeters is raised to it.
func (p RetryPolicy) InitialRadius(requested float64) float64 {
	return math.Max(requested, p.MinRadiusMeters)
}

// NextRadius returns max(MinRadiusMeters, prev-RadiusStepMeters), the radius
// for the attempt after one that used prev.
func (p RetryPolicy) NextRadius(prev float64) float64 {
	return math.Max(p.MinRadiusMeters, prev-p.RadiusStepMeters)
}

// Radii returns the radius used by every attempt for a requested radius.
func (p RetryPolicy) Radii(requested float64) []float64 {
	out := make([]float64, p.attempts())
	out[0] = p.InitialRadius(requested)
	for i := 1; i < len(out); i++ {
		out[i] = p.NextRadius(out[i-1])
	}
	return out
}

// Backoff returns the wait before retry number n (1-based).
func (p RetryPolicy) Backoff(n int) time.Duration {
	if n < 1 {
		return 0
	}
	return p.BackoffStep * time.Duration(n)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
