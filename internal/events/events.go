// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package events carries store changes over a watermill message bus.
//
// The in-process backend uses watermill's gochannel pub/sub. The nats
// backend uses watermill-nats on core NATS (no JetStream), against an
// external server or an embedded one. A Forwarder subscribes to the bus
// and pushes every change to the WebSocket hub.
package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/urbanwaste/internal/store"
)

// Event is the wire form of a store change.
type Event struct {
	EventID   string    `json:"event_id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent wraps a store change.
func NewEvent(c store.Change, now time.Time) Event {
	return Event{
		EventID:   uuid.NewString(),
		Entity:    c.Entity,
		Action:    c.Action,
		ID:        c.ID,
		Error:     c.Error,
		Timestamp: now.UTC(),
	}
}

// Validate checks the fields every consumer relies on.
func (e *Event) Validate() error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("event_id is required")
	case e.Entity == "":
		return fmt.Errorf("entity is required")
	case e.Action == "":
		return fmt.Errorf("action is required")
	}
	return nil
}

// SerializeEvent encodes an event.
func SerializeEvent(e *Event) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	return json.Marshal(e)
}

// DeserializeEvent decodes and validates an event.
func DeserializeEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	return &e, nil
}
