// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialHub starts a test server around hub.ServeWS and connects to it.
func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestClient_Constants(t *testing.T) {
	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod %v must be shorter than pongWait %v", pingPeriod, pongWait)
	}
	if writeWait <= 0 || maxMessageSize <= 0 {
		t.Error("invalid client limits")
	}
}

func TestNewClient_UniqueIDs(t *testing.T) {
	hub := NewHub()
	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	if a.ID() >= b.ID() {
		t.Errorf("ids not increasing: %d, %d", a.ID(), b.ID())
	}
	if cap(a.send) != 256 {
		t.Errorf("send buffer = %d", cap(a.send))
	}
}

func TestServeWS_ReceivesBroadcast(t *testing.T) {
	hub := setupHub(t)
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.BroadcastJSON(MessageTypeChange, map[string]string{"entity": "points", "action": "fetch"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != MessageTypeChange || msg.Data["entity"] != "points" {
		t.Errorf("message = %+v", msg)
	}
}

func TestServeWS_PingPong(t *testing.T) {
	hub := setupHub(t)
	conn := dialHub(t, hub)

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != MessageTypePong {
		t.Errorf("type = %q, want pong", msg.Type)
	}
}

func TestServeWS_DisconnectUnregisters(t *testing.T) {
	hub := setupHub(t)
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()
	waitForClients(t, hub, 0)
}

func TestServeWS_RejectsPlainHTTP(t *testing.T) {
	hub := NewHub()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/ws", nil)
	hub.ServeWS(rec, req)
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if hub.GetClientCount() != 0 {
		t.Error("client registered without an upgrade")
	}
}
