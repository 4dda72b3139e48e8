// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package websocket pushes store changes to connected dashboards.

It uses gorilla/websocket with a hub-client architecture:

	┌──────────┐
	│   Hub    │ ← change events from internal/events
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│ Client1  │ Client2 │ Client3 │
	└──────────┴─────────┴─────────┘

Each client runs a readPump (answers "ping" messages, tracks pongs) and a
writePump (JSON frames plus periodic ping control frames).

Message Types:

  - change: a store change {entity, action, id, error, timestamp}
  - ping / pong: application-level keepalive

Usage:

	hub := websocket.NewHub()
	go hub.Serve(ctx)

	r.Get("/api/v1/ws", hub.ServeWS)

	hub.BroadcastJSON(websocket.MessageTypeChange, event)

Thread Safety:

The Hub is safe for concurrent use. Broadcasts never block: when the
broadcast buffer is full the message is dropped and logged, and a client
whose send buffer is full is disconnected.
*/
package websocket
