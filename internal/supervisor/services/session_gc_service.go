// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package services

import (
	"context"
	"time"

	"github.com/tomtom215/urbanwaste/internal/logging"
)

// GarbageCollector matches (*session.Store).RunGC.
type GarbageCollector interface {
	RunGC() error
}

// SessionGCService reclaims badger value-log space in the session
// database at a fixed interval. Revoked-token entries expire by TTL but
// their space is only returned by GC.
type SessionGCService struct {
	named
	gc       GarbageCollector
	interval time.Duration
}

// NewSessionGCService runs gc every interval. A non-positive interval
// becomes 10 minutes.
func NewSessionGCService(gc GarbageCollector, interval time.Duration) *SessionGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SessionGCService{named: "session-gc", gc: gc, interval: interval}
}

// Serve implements suture.Service. GC failures are logged, not returned.
func (s *SessionGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log := logging.WithComponent(s.String())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.gc.RunGC(); err != nil {
				log.Warn().Err(err).Msg("Session value log GC failed")
			}
		}
	}
}
