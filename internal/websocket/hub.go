// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package websocket

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/metrics"
)

// ShutdownReason is logged when the hub stops.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types on the change feed.
const (
	MessageTypeChange = "change"
	MessageTypePing   = "ping"
	MessageTypePong   = "pong"
)

// Message is the frame sent to and read from dashboard clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const broadcastBuffer = 256

// Hub fans store changes out to connected dashboards. Register and
// Unregister are handled before pending broadcasts, so a client that just
// connected receives the next change.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	broadcast chan Message

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan Message, broadcastBuffer),
		clients:    make(map[*Client]struct{}),
	}
}

// Serve runs the hub until ctx is done. It implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return h.stop(ctx)
		}
		if h.handleLifecycle() {
			continue
		}

		select {
		case <-ctx.Done():
			return h.stop(ctx)
		case c := <-h.Register:
			h.add(c)
		case c := <-h.Unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// handleLifecycle applies one pending register or unregister, if any.
func (h *Hub) handleLifecycle() bool {
	select {
	case c := <-h.Register:
		h.add(c)
	case c := <-h.Unregister:
		h.remove(c)
	default:
		return false
	}
	return true
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(n))
	logging.Info().Uint64("client_id", c.id).Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	h.drop(c)
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(n))
	logging.Info().Uint64("client_id", c.id).Int("total_clients", n).Msg("websocket client disconnected")
}

// drop closes c's queue once. Caller holds mu.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// ordered lists clients by id. Caller holds mu.
func (h *Hub) ordered() []*Client {
	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Client) int { return cmp.Compare(a.id, b.id) })
	return out
}

// fanOut queues msg on every client. A client with a full queue is
// disconnected.
func (h *Hub) fanOut(msg Message) {
	h.mu.Lock()
	slow := 0
	for _, c := range h.ordered() {
		select {
		case c.send <- msg:
		default:
			h.drop(c)
			slow++
		}
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketMessagesSent.WithLabelValues(msg.Type).Add(float64(n))
	if slow > 0 {
		metrics.WebSocketClients.Set(float64(n))
		logging.Warn().Int("dropped_clients", slow).Msg("websocket clients too slow, disconnected")
	}
}

// stop disconnects everyone and returns ctx's error.
func (h *Hub) stop(ctx context.Context) error {
	h.mu.Lock()
	closed := len(h.clients)
	for _, c := range h.ordered() {
		h.drop(c)
	}
	h.mu.Unlock()
	metrics.WebSocketClients.Set(0)

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
	return ctx.Err()
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// BroadcastJSON queues a message for every client. It never blocks: when
// the queue is full the message is dropped and logged.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastRaw decodes an encoded change event and broadcasts it.
func (h *Hub) BroadcastRaw(data []byte) {
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		logging.Warn().Err(err).Msg("failed to unmarshal raw event for broadcast")
		return
	}
	h.BroadcastJSON(MessageTypeChange, payload)
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
