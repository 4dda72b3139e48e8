// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

const (
	embeddedReadyTimeout = 10 * time.Second
	maxChangePayload     = 1 << 20
)

var errServerNotReady = errors.New("embedded NATS server not ready")

// EmbeddedServer runs NATS in-process so a single gateway needs no
// external broker. JetStream stays off; changes are not replayed.
type EmbeddedServer struct {
	ns *server.Server
}

// StartEmbeddedServer listens on host:port; port -1 picks a free one.
func StartEmbeddedServer(host string, port int) (*EmbeddedServer, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName: "urbanwaste-events",
		Host:       host,
		Port:       port,
		NoLog:      true,
		NoSigs:     true,
		MaxPayload: maxChangePayload,
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(embeddedReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("%w after %s", errServerNotReady, embeddedReadyTimeout)
	}
	return &EmbeddedServer{ns: ns}, nil
}

func (s *EmbeddedServer) ClientURL() string { return s.ns.ClientURL() }

func (s *EmbeddedServer) IsRunning() bool { return s.ns.Running() }

// Shutdown blocks until the server has exited.
func (s *EmbeddedServer) Shutdown() {
	s.ns.Shutdown()
	s.ns.WaitForShutdown()
}
