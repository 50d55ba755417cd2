// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Database query performance (DuckDB)
// - Persistence gateway fallback activity (Badger)
// - Geocode table lookups
// - Auth token validation and JWKS refreshes

var (
	// API Endpoint Metrics
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

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Persistence Gateway Metrics
	GatewayFallbackReads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_fallback_reads_total",
			Help: "Total number of profile reads served from the fallback store",
		},
	)

	GatewayFallbackWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_fallback_writes_total",
			Help: "Total number of profile writes routed to the fallback store",
		},
	)

	GatewayPrimaryProbes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_primary_probes_total",
			Help: "Total number of primary store availability probes",
		},
		[]string{"result"}, // "up", "down"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Geocode Metrics
	GeocodeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_lookups_total",
			Help: "Total number of geocode table lookups",
		},
		[]string{"result"}, // "city", "state", "miss"
	)

	// Auth Metrics
	AuthTokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_validations_total",
			Help: "Total number of bearer token validations",
		},
		[]string{"result"}, // "valid", "invalid"
	)

	AuthJWKSRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_jwks_refreshes_total",
			Help: "Total number of JWKS cache refreshes",
		},
		[]string{"result"}, // "success", "failure"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFallbackRead records a profile read served from the fallback store
func RecordFallbackRead() {
	GatewayFallbackReads.Inc()
}

// RecordFallbackWrite records a profile write routed to the fallback store
func RecordFallbackWrite() {
	GatewayFallbackWrites.Inc()
}

// RecordPrimaryProbe records the outcome of a primary store availability probe
func RecordPrimaryProbe(up bool) {
	result := "down"
	if up {
		result = "up"
	}
	GatewayPrimaryProbes.WithLabelValues(result).Inc()
}

// RecordGeocodeLookup records a geocode table lookup by resolution tier
func RecordGeocodeLookup(result string) {
	GeocodeLookups.WithLabelValues(result).Inc()
}

// RecordTokenValidation records a bearer token validation outcome
func RecordTokenValidation(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	AuthTokenValidations.WithLabelValues(result).Inc()
}

// RecordJWKSRefresh records a JWKS cache refresh outcome
func RecordJWKSRefresh(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	AuthJWKSRefreshes.WithLabelValues(result).Inc()
}
