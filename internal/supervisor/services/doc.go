// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package services provides suture.Service wrappers for gateway components.

Each wrapper translates a component lifecycle (ListenAndServe/Shutdown,
a context-aware loop, a periodic job) into suture's Serve pattern and
names the service for supervisor logs via fmt.Stringer.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Configurable shutdown timeout for draining connections

WebSocket Hub (WebSocketHubService):
  - Wraps websocket.Hub, which closes every client on shutdown

Event Forwarder (EventForwarderService):
  - Wraps events.Forwarder, relaying store changes to the hub
  - Returns an error when the subscription closes so suture resubscribes

Session GC (SessionGCService):
  - Runs badger value-log garbage collection on the session database at
    a fixed interval

Each wrapper depends on a small interface matching the component's
method, so tests run against mocks.
*/
package services
