// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backend API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_api_requests_total",
			Help: "Total number of requests sent to the waste-management backend",
		},
		[]string{"resource", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "urbanwaste_api_request_duration_seconds",
			Help:    "Backend request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "method"},
	)

	// Store Metrics
	StoreActionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_store_action_errors_total",
			Help: "Total number of failed store actions",
		},
		[]string{"entity", "action"},
	)

	StoreEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "urbanwaste_store_entities",
			Help: "Number of records currently held by the store",
		},
		[]string{"entity"},
	)

	RoutesPlanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "urbanwaste_routes_planned_total",
			Help: "Total number of routes created by the route planner",
		},
	)

	// Gateway Metrics
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_gateway_requests_total",
			Help: "Total number of gateway HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "urbanwaste_gateway_request_duration_seconds",
			Help:    "Gateway HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "route"},
	)

	GatewayActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "urbanwaste_gateway_active_requests",
			Help: "Number of gateway requests currently being served",
		},
	)

	GatewayRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "urbanwaste_gateway_rate_limit_hits_total",
			Help: "Total number of gateway requests rejected by the rate limiter",
		},
	)

	// WebSocket Metrics
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "urbanwaste_websocket_clients",
			Help: "Number of connected WebSocket clients",
		},
	)

	WebSocketMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages delivered to clients",
		},
		[]string{"type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "urbanwaste_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_events_published_total",
			Help: "Total number of store change events published",
		},
		[]string{"backend"},
	)

	EventsPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_events_publish_errors_total",
			Help: "Total number of store change events that failed to publish",
		},
		[]string{"backend"},
	)

	EventsForwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "urbanwaste_events_forwarded_total",
			Help: "Total number of change events forwarded to WebSocket clients",
		},
	)

	// Auth Metrics
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_auth_failures_total",
			Help: "Total number of rejected gateway credentials",
		},
		[]string{"reason"},
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbanwaste_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "decision"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "urbanwaste_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records one backend call. A status of 0 means the request
// never got a response.
func RecordAPIRequest(resource, method string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	APIRequestsTotal.WithLabelValues(resource, method, code).Inc()
	APIRequestDuration.WithLabelValues(resource, method).Observe(duration.Seconds())
}

// RecordStoreError counts a failed store action.
func RecordStoreError(entity, action string) {
	StoreActionErrors.WithLabelValues(entity, action).Inc()
}

// SetEntityCount updates the per-entity record gauge.
func SetEntityCount(entity string, n int) {
	StoreEntities.WithLabelValues(entity).Set(float64(n))
}

// RecordGatewayRequest records a served gateway request
func RecordGatewayRequest(method, route, statusCode string, duration time.Duration) {
	GatewayRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	GatewayRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight gateway requests
func TrackActiveRequest(inc bool) {
	if inc {
		GatewayActiveRequests.Inc()
	} else {
		GatewayActiveRequests.Dec()
	}
}

// RecordEventPublish counts a published (or failed) change event.
func RecordEventPublish(backend string, err error) {
	if err != nil {
		EventsPublishErrors.WithLabelValues(backend).Inc()
		return
	}
	EventsPublished.WithLabelValues(backend).Inc()
}

// RecordAuthzDecision counts one allow or deny.
func RecordAuthzDecision(role string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	AuthzDecisions.WithLabelValues(role, decision).Inc()
}
