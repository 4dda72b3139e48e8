// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package events

import (
	"context"
	"errors"

	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/metrics"
	"github.com/tomtom215/urbanwaste/internal/websocket"
)

// Broadcaster receives forwarded events. *websocket.Hub satisfies it.
type Broadcaster interface {
	BroadcastJSON(messageType string, data interface{})
}

// ErrSubscriptionClosed makes the supervisor restart the forwarder.
var ErrSubscriptionClosed = errors.New("event subscription closed")

// Forwarder pushes bus events to a Broadcaster.
type Forwarder struct {
	bus  *Bus
	sink Broadcaster
}

func NewForwarder(bus *Bus, sink Broadcaster) *Forwarder {
	return &Forwarder{bus: bus, sink: sink}
}

// Serve forwards until ctx ends. It implements suture.Service.
func (f *Forwarder) Serve(ctx context.Context) error {
	msgs, err := f.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	log := logging.WithComponent("event-forwarder")
	log.Info().Str("backend", f.bus.Backend()).Str("topic", f.bus.Topic()).Msg("Event forwarder started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			e, err := DeserializeEvent(msg.Payload)
			if err != nil {
				log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed change event")
				msg.Ack()
				continue
			}
			f.sink.BroadcastJSON(websocket.MessageTypeChange, e)
			metrics.EventsForwarded.Inc()
			msg.Ack()
		}
	}
}
