// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package metrics provides Prometheus metrics for the waste-management client
and its gateway.

All collectors are registered on the default registry through promauto and
served by promhttp at /metrics:

	curl http://localhost:3900/metrics

# Available Metrics

Backend API:
  - urbanwaste_api_requests_total: requests sent to the backend (counter)
    Labels: resource, method, status ("error" when no response arrived)
  - urbanwaste_api_request_duration_seconds: backend latency (histogram)
    Labels: resource, method

Store:
  - urbanwaste_store_action_errors_total: failed actions (counter)
    Labels: entity, action
  - urbanwaste_store_entities: records held per entity (gauge)
    Labels: entity
  - urbanwaste_routes_planned_total: routes created by the planner (counter)

Gateway:
  - urbanwaste_gateway_requests_total, urbanwaste_gateway_request_duration_seconds
    Labels: method, route, status
  - urbanwaste_gateway_active_requests (gauge)
  - urbanwaste_gateway_rate_limit_hits_total (counter)

Circuit Breaker:
  - urbanwaste_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - urbanwaste_circuit_breaker_requests_total: by result (counter)
  - urbanwaste_circuit_breaker_transitions_total: by from/to (counter)

Events and WebSocket:
  - urbanwaste_events_published_total, urbanwaste_events_publish_errors_total
    Labels: backend (channel, nats)
  - urbanwaste_events_forwarded_total (counter)
  - urbanwaste_websocket_clients (gauge)
  - urbanwaste_websocket_messages_sent_total: Labels: entity

# Thread Safety

All Prometheus collectors are safe for concurrent use.
*/
package metrics
