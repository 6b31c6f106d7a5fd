// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fablehouse/fablehouse/internal/config"
	"github.com/fablehouse/fablehouse/internal/metrics"
	"github.com/fablehouse/fablehouse/internal/middleware"
)

// healthRateLimit is permissive so orchestrator probes never starve.
const healthRateLimit = 1000

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(h *Handler, cfg *config.SecurityConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(healthRateLimit, cfg.RateLimitWindow))
		r.Get("/", h.HealthLive)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitEnabled {
			r.Use(httprate.Limit(
				cfg.RateLimitReqs, cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
					metrics.APIRateLimitHits.WithLabelValues(req.URL.Path).Inc()
					NewResponseWriter(w, req).Error(http.StatusTooManyRequests,
						"TOO_MANY_REQUESTS", "slow down a little and try again")
				}),
			))
		}
		r.Use(middleware.Prometheus)

		r.Post("/chat", h.Chat)
		r.Get("/chat/history/{childID}", h.ChatHistory)
		r.Get("/context/{childID}", h.Context)
		r.Delete("/context/{childID}", h.ClearContext)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
