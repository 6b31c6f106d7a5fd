// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package middleware provides the HTTP middleware stack: request ID
// propagation and Prometheus instrumentation. Rate limiting and CORS
// come from the chi ecosystem and are wired in the router.
package middleware

import (
	"net/http"

	"github.com/fablehouse/fablehouse/internal/logging"
)

// RequestID tags every request with a unique ID, reusing one supplied by
// an upstream proxy. The ID flows into the response header and the
// logging context, along with a request-scoped component logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithLogger(ctx, logging.WithComponent("api"))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
