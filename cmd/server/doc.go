// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package main is the entry point for the UrbanWaste gateway.

The gateway keeps a client-side cache of a municipal waste-management
backend (collection points, vehicles, staff, routes and incident reports)
and serves it as a JSON API with live change notifications over WebSocket.

# Application Architecture

	RootSupervisor ("urbanwaste")
	├── DataSupervisor ("data-layer")
	│   └── Session GC (badger value log)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub
	│   └── Event Forwarder (change bus to hub)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog with JSON/console output modes
 3. Backend client: rate limited, behind a gobreaker circuit breaker
 4. Session store: BadgerDB, restores the last login
 5. State store: wired to the client, the mapper and the route planner
 6. Change bus: Watermill over Go channels or NATS
 7. Authentication: gateway JWT and Casbin policy (AUTH_ENABLED)
 8. Supervisor tree and HTTP server

# Configuration

Common environment variables:

	WASTE_API_URL      backend base URL (default http://localhost:8080/api)
	WASTE_API_TOKEN    static bearer token for the backend
	HTTP_PORT          gateway port (default 3900)
	AUTH_ENABLED       enforce role permissions
	JWT_SECRET         32+ character gateway token secret
	SESSION_PATH       BadgerDB directory for the saved session
	EVENTS_BACKEND     channel or nats
	NATS_EMBEDDED      start an in-process NATS server
	LOG_LEVEL          trace, debug, info, warn, error

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
server.shutdown_timeout, the hub closes every client and the change bus
and session database are closed last.
*/
package main
