// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package api provides the HTTP gateway in front of the client state store.

Every handler calls one store action and answers with the standard
envelope:

	{"success": true, "data": ..., "meta": {"request_id": ..., "timestamp": ...}}
	{"success": false, "error": {"code": ..., "message": ..., "details": ...}}

Key Components:

  - Router: chi route tree and middleware stack
  - Handler: one method per endpoint
  - ResponseWriter: envelope formatting
  - classify/respondError: store, validation and backend errors to HTTP status
  - ChiMiddleware: CORS (go-chi/cors) and per-IP rate limits (go-chi/httprate)

Endpoints (/api/v1):

  - health, state, ws
  - auth/login, auth/logout
  - points, vehicules, employes, tournees, signalements with their
    status and assignment sub-resources
  - tournees/optimize
  - users/{role}
  - notifications, technicien/notifications
  - export/{entity}.xml, import/{entity}

Authorization:

With security.auth_enabled, auth.Identify resolves the caller's role from
the gateway JWT and authz.AuthorizeRequest checks it against the Casbin
policy. Anonymous callers keep the citizen permissions.

Backend errors keep their 4xx status; 5xx and transport failures become
502 and an open circuit breaker 503.
*/
package api
