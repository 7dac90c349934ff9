// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package middleware

import (
	"context"
	"net/http"

	"github.com/tomtom215/poiscope/internal/logging"
)

// Header names used for request tracing.
const (
	RequestIDHeader     = "X-Request-ID"
	CorrelationIDHeader = "X-Correlation-ID"
)

// maxInboundIDLength bounds IDs accepted from upstream proxies.
const maxInboundIDLength = 128

// RequestID generates a unique ID for each request and adds it to both the
// response header and request context. An upstream X-Correlation-ID is kept so
// a discovery can be traced across the WebSocket push that follows it;
// otherwise a fresh correlation ID is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxInboundIDLength {
			requestID = logging.GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		if corr := r.Header.Get(CorrelationIDHeader); corr != "" && len(corr) <= maxInboundIDLength {
			ctx = logging.ContextWithCorrelationID(ctx, corr)
		} else {
			ctx = logging.ContextWithNewCorrelationID(ctx)
		}
		w.Header().Set(CorrelationIDHeader, logging.CorrelationIDFromContext(ctx))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	return logging.RequestIDFromContext(ctx)
}
