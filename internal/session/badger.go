// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package session persists the logged-in dashboard session in BadgerDB.
//
// The session (token and user) is the only client state that survives a
// restart. The same database holds the ids of gateway tokens revoked by
// logout until they would have expired anyway.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/models"
)

// Key layout
const (
	currentKey       = "session:current"
	revokedKeyPrefix = "revoked:"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("session store is closed")

// Store is a BadgerDB-backed session store. The zero value is not usable;
// call Open.
type Store struct {
	db  *badger.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens the database described by cfg. ttl bounds how long a saved
// session is kept; zero keeps it until Clear.
func Open(cfg config.SessionConfig, ttl time.Duration) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("session path is required when not in memory")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for sessions: %w", err)
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

// Load returns the saved session, or nil when there is none or it has
// expired.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	if s.db.IsClosed() {
		return nil, ErrClosed
	}
	var sess models.Session
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(currentKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if s.ttl > 0 && !sess.CreatedAt.IsZero() && s.now().After(sess.CreatedAt.Add(s.ttl)) {
		return nil, nil
	}
	return &sess, nil
}

// Save replaces the saved session.
//
//nolint:gocritic // Session is small and copied on purpose
func (s *Store) Save(ctx context.Context, sess models.Session) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(currentKey), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		return nil
	})
}

// Clear removes the saved session. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(currentKey)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// Revoke records a token id as unusable until expiresAt. Ids whose expiry
// has already passed are not stored.
func (s *Store) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return errors.New("token id is required")
	}
	if s.db.IsClosed() {
		return ErrClosed
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(revokedKeyPrefix+jti), []byte(expiresAt.UTC().Format(time.RFC3339))).WithTTL(ttl)
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
		return nil
	})
}

// IsRevoked reports whether jti was revoked and has not yet expired.
func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.db.IsClosed() {
		return false, ErrClosed
	}
	revoked := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(revokedKeyPrefix + jti))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("get revoked token: %w", err)
		}
		revoked = true
		return nil
	})
	return revoked, err
}

// gcDiscardRatio is the share of stale data a value-log file needs before
// RunGC rewrites it.
const gcDiscardRatio = 0.5

// RunGC rewrites value-log files until one pass finds nothing to reclaim.
// It is a no-op for in-memory stores.
func (s *Store) RunGC() error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("session value log gc: %w", err)
		}
	}
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}
