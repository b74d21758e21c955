// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package metrics provides Prometheus instrumentation for the catalog
// pipeline: request queue saturation, metadata cache efficiency, enrichment
// outcomes, provider latency and API throughput.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request queue metrics
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moonflix_queue_depth",
			Help: "Number of enrichment tasks waiting in the backlog",
		},
	)

	QueueInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moonflix_queue_in_flight",
			Help: "Number of enrichment tasks currently executing",
		},
	)

	QueueTasksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moonflix_queue_tasks_total",
			Help: "Total number of tasks accepted by the request queue",
		},
	)

	// Metadata cache metrics
	MetadataCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moonflix_metadata_cache_hits_total",
			Help: "Total number of metadata patch cache hits",
		},
	)

	MetadataCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moonflix_metadata_cache_misses_total",
			Help: "Total number of metadata patch cache misses",
		},
	)

	// Enrichment metrics. Outcome is one of: enriched, cached, not_found,
	// error, skipped.
	EnrichmentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moonflix_enrichment_total",
			Help: "Total number of resolver completions by outcome",
		},
		[]string{"outcome"},
	)

	// Metadata provider metrics
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moonflix_provider_request_duration_seconds",
			Help:    "Duration of metadata provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ProviderRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moonflix_provider_request_errors_total",
			Help: "Total number of failed metadata provider requests",
		},
		[]string{"endpoint"},
	)

	// Circuit breaker state: 0 = closed, 1 = half-open, 2 = open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moonflix_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Search metrics
	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moonflix_search_queries_total",
			Help: "Total number of executed search queries by pass",
		},
		[]string{"pass"}, // "local", "remote", "superseded"
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moonflix_search_duration_seconds",
			Help:    "Duration of hybrid search execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Catalog metrics
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moonflix_catalog_records",
			Help: "Number of records in the live catalog",
		},
	)

	// HTTP API metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moonflix_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveProviderRequest records a provider request duration and, when err is
// non-nil, the corresponding error counter.
func ObserveProviderRequest(endpoint string, start time.Time, err error) {
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		ProviderRequestErrors.WithLabelValues(endpoint).Inc()
	}
}
