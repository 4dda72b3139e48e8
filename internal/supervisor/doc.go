// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package supervisor runs the gateway's long-lived loops under a suture v4
tree:

	urbanwaste
	├── data-layer
	│   └── session-gc       badger value-log GC
	├── messaging-layer
	│   ├── websocket-hub
	│   └── event-forwarder  bus to hub
	└── api-layer
	    └── http-server

Failures are counted per layer. A forwarder that keeps losing its NATS
subscription backs off on its own while the HTTP server keeps answering
from the store.

Wiring, as done in cmd/server:

	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(services.NewSessionGCService(sessions, 10*time.Minute))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewEventForwarderService(forwarder))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)

A service that returns while its context is live is restarted. Zero
TreeConfig fields take suture's defaults (see DefaultTreeConfig). After
shutdown, UnstoppedServiceReport names any service that overran
ShutdownTimeout.

The store and the backend client are not supervised: they are libraries
called from handlers, and the client's circuit breaker isolates backend
failures.
*/
package supervisor
