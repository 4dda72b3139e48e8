// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package websocket

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/urbanwaste/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// clientIDCounter orders clients for broadcast.
var clientIDCounter atomic.Uint64

// Client is one dashboard connection. The hub owns send and closes it
// when the client is dropped.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
}

func (c *Client) ID() uint64 { return c.id }

// Start runs the read and write loops in their own goroutines.
func (c *Client) Start() {
	go c.writeLoop()
	go c.readLoop()
}

func (c *Client) extendRead(string) error {
	return c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// readLoop keeps the read deadline fresh and answers ping frames. It
// unregisters the client when the peer goes away.
func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(c.extendRead)
	if err := c.extendRead(""); err != nil {
		logging.Error().Err(err).Uint64("client_id", c.id).Msg("failed to set read deadline")
		return
	}

	for {
		var in Message
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Uint64("client_id", c.id).Msg("unexpected websocket close error")
			}
			return
		}
		if in.Type != MessageTypePing {
			continue
		}
		select {
		case c.send <- Message{Type: MessageTypePong}:
		default:
		}
	}
}

// write sets the deadline and sends one frame. A nil msg sends a
// control frame of kind op.
func (c *Client) write(op int, msg *Message) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if msg != nil {
		return c.conn.WriteJSON(msg)
	}
	return c.conn.WriteMessage(op, nil)
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		var err error
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			err = c.write(websocket.TextMessage, &msg)
		case <-ticker.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			logging.Debug().Err(err).Uint64("client_id", c.id).Msg("websocket write failed")
			return
		}
	}
}

// Upgrader accepts any origin; the CORS middleware in front of the
// gateway has already filtered the request.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWS upgrades the request and hands the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := NewClient(h, conn)
	select {
	case h.Register <- c:
		c.Start()
	case <-r.Context().Done():
		_ = conn.Close()
	}
}
