// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package metrics exposes Prometheus instrumentation for the chat
// service: HTTP traffic, database queries, answer paths, generator
// calls, safety filtering and conversation context churn. Everything is
// registered on the default registry and served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlite_query_duration_seconds",
			Help:    "Duration of SQLite queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlite_query_errors_total",
			Help: "Total number of failed SQLite queries",
		},
		[]string{"operation"},
	)

	// Chat answer metrics
	ChatAnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_answers_total",
			Help: "Total number of chat answers by resolution path",
		},
		[]string{"path"}, // "title", "character", "genre", "recommendation", "generator", "fallback"
	)

	ChatAnswerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_answer_duration_seconds",
			Help:    "Time spent resolving and answering a chat question",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"path"},
	)

	// Generator metrics
	GeneratorCalls = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generator_calls_total",
			Help: "Total number of language model completion calls",
		},
	)

	GeneratorErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generator_errors_total",
			Help: "Total number of failed language model completion calls",
		},
	)

	GeneratorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generator_call_duration_seconds",
			Help:    "Duration of language model completion calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Safety metrics
	SafetyItemsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safety_items_dropped_total",
			Help: "Total catalogue items removed by safety filtering",
		},
		[]string{"reason"}, // "age", "blocked_genre", "status", "cap"
	)

	// Conversation context metrics
	ContextEntriesSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "context_entries_swept_total",
			Help: "Total expired conversation context entries removed by the sweeper",
		},
	)

	ContextChildrenActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "context_children_active",
			Help: "Children with live conversation context entries",
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records one database query's outcome.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordChatAnswer records one answered question and the path that
// served it.
func RecordChatAnswer(path string, duration time.Duration) {
	ChatAnswersTotal.WithLabelValues(path).Inc()
	ChatAnswerDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordGeneratorCall records one language model completion attempt.
func RecordGeneratorCall(duration time.Duration, err error) {
	GeneratorCalls.Inc()
	GeneratorDuration.Observe(duration.Seconds())
	if err != nil {
		GeneratorErrors.Inc()
	}
}

// RecordSafetyDrop counts items removed from a result set for a reason.
func RecordSafetyDrop(reason string, count int) {
	if count > 0 {
		SafetyItemsDropped.WithLabelValues(reason).Add(float64(count))
	}
}

// RecordContextSweep records one sweeper pass.
func RecordContextSweep(removed, activeChildren int) {
	ContextEntriesSwept.Add(float64(removed))
	ContextChildrenActive.Set(float64(activeChildren))
}
