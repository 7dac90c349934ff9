// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poiscope/internal/metrics"
	"github.com/tomtom215/poiscope/internal/models"
)

// maxResponseSize bounds a decoded provider response.
const maxResponseSize = 8 << 20 // 8MB

// maxErrorBodySize limits how much of an error response is kept for reporting.
const maxErrorBodySize = 4 * 1024

// ErrResponseTooLarge is returned when a provider response exceeds maxResponseSize.
var ErrResponseTooLarge = errors.New("provider response too large")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Source     models.Source
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Source, e.StatusCode, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return string(body)
}

// HTTPClient is the shared transport for provider adapters and enrichers.
type HTTPClient struct {
	source    models.Source
	http      *http.Client
	userAgent string
}

// NewHTTPClient creates a client that identifies itself with userAgent.
// The timeout bounds a whole request including the body read.
func NewHTTPClient(source models.Source, userAgent string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		source:    source,
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// requestConfig holds configuration for building HTTP requests
type requestConfig struct {
	method      string
	url         string
	query       url.Values
	body        []byte
	contentType string
	accept      string
	headers     map[string]string
}

// do executes the request and decodes a JSON response into result.
func (c *HTTPClient) do(ctx context.Context, cfg requestConfig, result interface{}) error {
	var body io.Reader = http.NoBody
	if cfg.body != nil {
		body = bytes.NewReader(cfg.body)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.method, cfg.url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if len(cfg.query) > 0 {
		req.URL.RawQuery = cfg.query.Encode()
	}

	req.Header.Set("User-Agent", c.userAgent)
	accept := cfg.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	if cfg.contentType != "" {
		req.Header.Set("Content-Type", cfg.contentType)
	}
	for k, v := range cfg.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProviderHTTPResponses.WithLabelValues(string(c.source), "error").Inc()
		return fmt.Errorf("%s request: %w", c.source, err)
	}
	defer resp.Body.Close()
	metrics.ProviderHTTPResponses.WithLabelValues(string(c.source), strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Body:       readBodyForError(resp.Body),
		}
	}
	if result == nil {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return fmt.Errorf("%s read response: %w", c.source, err)
	}
	if len(data) > maxResponseSize {
		return fmt.Errorf("%s: %w", c.source, ErrResponseTooLarge)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%s decode response: %w", c.source, err)
	}
	return nil
}

// getJSON is a convenience wrapper for GET requests with query parameters.
func (c *HTTPClient) getJSON(ctx context.Context, rawURL string, query url.Values, headers map[string]string, result interface{}) error {
	return c.do(ctx, requestConfig{
		method:  http.MethodGet,
		url:     rawURL,
		query:   query,
		headers: headers,
	}, result)
}

// postJSON encodes payload as the request body.
func (c *HTTPClient) postJSON(ctx context.Context, rawURL string, payload interface{}, headers map[string]string, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, requestConfig{
		method:      http.MethodPost,
		url:         rawURL,
		body:        body,
		contentType: "application/json",
		headers:     headers,
	}, result)
}

// postForm sends form-encoded values.
func (c *HTTPClient) postForm(ctx context.Context, rawURL string, form url.Values, result interface{}) error {
	return c.do(ctx, requestConfig{
		method:      http.MethodPost,
		url:         rawURL,
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, result)
}
