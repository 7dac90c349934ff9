// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/middleware"
	"github.com/tomtom215/poiscope/internal/models"
	"github.com/tomtom215/poiscope/internal/settings"
	"github.com/tomtom215/poiscope/internal/validation"
)

// API error codes.
const (
	CodeValidation        = validation.CodeValidation
	CodeBadRequest        = "BAD_REQUEST"
	CodeConfiguration     = "CONFIGURATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeUpstream          = "UPSTREAM_ERROR"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
	CodeInternal          = "INTERNAL_ERROR"
)

// maxBodyBytes bounds request bodies; every endpoint takes a small JSON object.
const maxBodyBytes = 64 << 10

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers. Discovery state
// changes on every request, so responses are never cached by intermediaries.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

func responseMetadata(r *http.Request, start time.Time) models.Metadata {
	meta := models.Metadata{
		Timestamp: time.Now(),
		RequestID: middleware.GetRequestID(r.Context()),
	}
	if !start.IsZero() {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return meta
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: responseMetadata(r, start),
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", sanitizeLogValue(apiErr.Code)).
			Str("error", sanitizeLogValue(err.Error())).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: responseMetadata(r, time.Time{}),
		Error:    apiErr,
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	return validationErr.ToAPIError()
}

// errEmptyBody is returned by decodeJSONBody for a missing body.
var errEmptyBody = errors.New("request body is empty")

// decodeJSONBody decodes a bounded JSON body into dst, rejecting unknown
// fields and trailing data.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: unexpected data after object")
	}
	return nil
}

// decodeAndValidate decodes the body and validates it, writing the error
// response itself. It returns false when the handler should stop.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSONBody(w, r, dst); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
		return false
	}
	if apiErr := validateRequest(dst); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return false
	}
	return true
}

// respondDiscoveryError maps engine and settings errors to API responses.
func respondDiscoveryError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError(), nil)
	case errors.Is(err, discovery.ErrInvalidOrigin),
		errors.Is(err, discovery.ErrInvalidCategory),
		errors.Is(err, discovery.ErrUnknownType),
		errors.Is(err, settings.ErrTypeCategoryMismatch),
		errors.Is(err, settings.ErrRadiusBelowMinimum):
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
	case errors.Is(err, discovery.ErrAllProvidersDisabled),
		errors.Is(err, discovery.ErrAllTypesDisabled):
		respondError(w, r, http.StatusUnprocessableEntity, CodeConfiguration, configurationMessage(err), nil)
	case errors.Is(err, discovery.ErrNoPreviousRequest):
		respondError(w, r, http.StatusConflict, CodeConflict, err.Error(), nil)
	case errors.Is(err, discovery.ErrEnrichmentUnavailable):
		respondError(w, r, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.Is(err, discovery.ErrEngineClosed):
		respondError(w, r, http.StatusServiceUnavailable, CodeUnavailable, "Discovery engine is shutting down", err)
	case errors.Is(err, context.Canceled):
		// The client went away; nothing useful to send.
		respondError(w, r, http.StatusServiceUnavailable, CodeUnavailable, "Request canceled", nil)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, CodeUpstream, "Upstream provider timed out", err)
	default:
		respondError(w, r, http.StatusBadGateway, CodeUpstream, "Upstream provider request failed", err)
	}
}

// configurationMessage prefers the user-facing DiscoveryError message.
func configurationMessage(err error) string {
	var derr *discovery.DiscoveryError
	if errors.As(err, &derr) {
		return derr.Message
	}
	return err.Error()
}
