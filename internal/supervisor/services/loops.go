// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package services

import (
	"context"
	"fmt"
)

// Loop is anything that runs until its context ends, such as
// (*websocket.Hub) or (*events.Forwarder).
type Loop interface {
	Serve(ctx context.Context) error
}

// named gives a service its supervisor log name.
type named string

func (n named) String() string { return string(n) }

// WebSocketHubService runs the hub. The hub disconnects every client when
// ctx ends.
//
//	tree.AddMessagingService(services.NewWebSocketHubService(hub))
type WebSocketHubService struct {
	named
	hub Loop
}

func NewWebSocketHubService(hub Loop) *WebSocketHubService {
	return &WebSocketHubService{named: "websocket-hub", hub: hub}
}

func (s *WebSocketHubService) Serve(ctx context.Context) error {
	return s.hub.Serve(ctx)
}

// EventForwarderService relays store changes from the bus to the hub. A
// subscription that closes while ctx is live is reported as a failure,
// so suture resubscribes after backoff.
type EventForwarderService struct {
	named
	relay Loop
}

func NewEventForwarderService(relay Loop) *EventForwarderService {
	return &EventForwarderService{named: "event-forwarder", relay: relay}
}

func (s *EventForwarderService) Serve(ctx context.Context) error {
	err := s.relay.Serve(ctx)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("event forwarder stopped: %w", err)
	}
	return err
}
