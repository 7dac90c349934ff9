// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"errors"
	"fmt"

	"github.com/tomtom215/poiscope/internal/models"
)

// ErrAllProvidersDisabled is returned when no enabled source serves the requested category.
var ErrAllProvidersDisabled = errors.New("all providers disabled")

// ErrAllTypesDisabled is returned when the requested category has no enabled POI type.
var ErrAllTypesDisabled = errors.New("all types disabled")

// ErrUnexpected marks a failure outside the per-adapter retry boundary.
var ErrUnexpected = errors.New("unable to discover places")

// ErrAllSourcesFailed is reported when every adapter of a request exhausted its retries.
var ErrAllSourcesFailed = errors.New("every enabled source failed")

// ErrNoPreviousRequest is returned by Retry before any Discover call.
var ErrNoPreviousRequest = errors.New("no previous discovery request to retry")

// ErrInvalidOrigin is returned for origins outside WGS84 bounds.
var ErrInvalidOrigin = errors.New("origin coordinates out of range")

// ErrInvalidCategory is returned for unknown categories.
var ErrInvalidCategory = errors.New("unknown category")

// ErrEnrichmentUnavailable is returned when no enricher can handle a POI.
var ErrEnrichmentUnavailable = errors.New("no enrichment available for place")

// ErrEngineClosed is returned by operations on a closed engine.
var ErrEngineClosed = errors.New("discovery engine closed")

// errStale signals that a newer epoch superseded the request.
var errStale = errors.New("discovery request superseded")

// ErrorKind classifies a DiscoveryError for clients.
type ErrorKind string

const (
	ErrorKindProvidersDisabled ErrorKind = "all_providers_disabled"
	ErrorKindTypesDisabled     ErrorKind = "all_types_disabled"
	ErrorKindAllSourcesFailed  ErrorKind = "all_sources_failed"
	ErrorKindUnexpected        ErrorKind = "unexpected"
)

// DiscoveryError is the user-facing error carried in snapshots.
type DiscoveryError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	err     error
}

func (e *DiscoveryError) Error() string {
	return e.Message
}

func (e *DiscoveryError) Unwrap() error {
	return e.err
}

func configurationError(category models.Category, cause error) *DiscoveryError {
	kind := ErrorKindProvidersDisabled
	if errors.Is(cause, ErrAllTypesDisabled) {
		kind = ErrorKindTypesDisabled
	}
	return &DiscoveryError{
		Kind:    kind,
		Message: fmt.Sprintf("at least one %s type/source must be enabled", category),
		err:     cause,
	}
}

func unexpectedError(cause error) *DiscoveryError {
	return &DiscoveryError{
		Kind:    ErrorKindUnexpected,
		Message: "unable to discover places",
		err:     fmt.Errorf("%w: %w", ErrUnexpected, cause),
	}
}

func allSourcesFailedError() *DiscoveryError {
	return &DiscoveryError{
		Kind:    ErrorKindAllSourcesFailed,
		Message: "no provider could be reached, results may be incomplete",
		err:     ErrAllSourcesFailed,
	}
}

// AdapterError describes a source that failed every retry attempt. It is
// logged and reported per source but never fails the request.
type AdapterError struct {
	Source       models.Source
	Attempts     int
	RadiusMeters float64 // radius of the final attempt
	Err          error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts (last radius %.0fm): %v",
		e.Source, e.Attempts, e.RadiusMeters, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
