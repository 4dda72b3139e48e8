// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/urbanwaste/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub starts a hub that stops with the test.
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func createTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.GetClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return Message{}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	checks := []struct {
		name  string
		check bool
	}{
		{"clients map", hub.clients != nil},
		{"broadcast channel", hub.broadcast != nil},
		{"Register channel", hub.Register != nil},
		{"Unregister channel", hub.Unregister != nil},
		{"empty clients", hub.GetClientCount() == 0},
	}
	for _, c := range checks {
		if !c.check {
			t.Errorf("%s not initialized", c.name)
		}
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := setupHub(t)
	a := createTestClient(hub, 4)
	b := createTestClient(hub, 4)

	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.Unregister <- a
	waitForClients(t, hub, 1)

	if _, ok := <-a.send; ok {
		t.Error("send channel of an unregistered client should be closed")
	}

	// unregistering twice is harmless
	hub.Unregister <- a
	waitForClients(t, hub, 1)
}

func TestHub_BroadcastJSON(t *testing.T) {
	hub := setupHub(t)
	clients := []*Client{createTestClient(hub, 4), createTestClient(hub, 4), createTestClient(hub, 4)}
	for _, c := range clients {
		hub.Register <- c
	}
	waitForClients(t, hub, len(clients))

	payload := map[string]string{"entity": "points", "action": "update", "id": "3"}
	hub.BroadcastJSON(MessageTypeChange, payload)

	for i, c := range clients {
		msg := receive(t, c)
		if msg.Type != MessageTypeChange {
			t.Errorf("client %d: type = %q", i, msg.Type)
		}
		data, ok := msg.Data.(map[string]string)
		if !ok || data["id"] != "3" {
			t.Errorf("client %d: data = %#v", i, msg.Data)
		}
	}
}

func TestHub_BroadcastRaw(t *testing.T) {
	hub := setupHub(t)
	c := createTestClient(hub, 4)
	hub.Register <- c
	waitForClients(t, hub, 1)

	hub.BroadcastRaw([]byte(`not json`))
	hub.BroadcastRaw([]byte(`{"entity":"tournees","action":"add"}`))

	msg := receive(t, c)
	data, ok := msg.Data.(map[string]interface{})
	if !ok || data["entity"] != "tournees" {
		t.Errorf("data = %#v", msg.Data)
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := setupHub(t)
	slow := createTestClient(hub, 1)
	fast := createTestClient(hub, 8)
	hub.Register <- slow
	hub.Register <- fast
	waitForClients(t, hub, 2)

	hub.BroadcastJSON(MessageTypeChange, 1)
	hub.BroadcastJSON(MessageTypeChange, 2)
	receive(t, fast)
	receive(t, fast)

	waitForClients(t, hub, 1)
}

func TestHub_BroadcastBufferFullDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.BroadcastJSON(MessageTypeChange, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastJSON blocked on a full buffer")
	}
}

func TestHub_ServeStopsOnCancel(t *testing.T) {
	tests := []struct {
		name   string
		ctx    func() (context.Context, context.CancelFunc)
		want   error
		reason ShutdownReason
	}{
		{"canceled", func() (context.Context, context.CancelFunc) {
			return context.WithCancel(context.Background())
		}, context.Canceled, ShutdownReasonContextCanceled},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}, context.DeadlineExceeded, ShutdownReasonContextDeadline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub()
			c := createTestClient(hub, 1)
			ctx, cancel := tt.ctx()
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- hub.Serve(ctx) }()
			hub.Register <- c
			if tt.want == context.Canceled {
				cancel()
			}

			select {
			case err := <-errCh:
				if !errors.Is(err, tt.want) {
					t.Errorf("Serve() = %v, want %v", err, tt.want)
				}
			case <-time.After(time.Second):
				t.Fatal("Serve() did not return")
			}
			if got := getShutdownReason(ctx); got != tt.reason {
				t.Errorf("reason = %q, want %q", got, tt.reason)
			}
			if hub.GetClientCount() != 0 {
				t.Error("clients not closed on shutdown")
			}
			if _, ok := <-c.send; ok {
				t.Error("client channel not closed")
			}
		})
	}
}

func TestMarshalMessage(t *testing.T) {
	got, err := MarshalMessage(Message{Type: MessageTypePong})
	if err != nil {
		t.Fatalf("MarshalMessage() error = %v", err)
	}
	if string(got) != `{"type":"pong","data":null}` {
		t.Errorf("MarshalMessage() = %s", got)
	}
}
