// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package middleware provides HTTP middleware components for the gateway.

Every component has the chi signature func(http.Handler) http.Handler and
can be passed to r.Use directly.

Key Components:

  - RequestID: X-Request-ID propagation plus request and correlation IDs
    in the logging context
  - Metrics: Prometheus request counters and latency histograms, labelled
    by chi route pattern rather than raw path
  - AccessLog: one structured log line per request
  - Compression: gzip for clients that accept it, never for WebSocket
    upgrades

Middleware Stack:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)
	r.Use(middleware.Compression)
*/
package middleware
