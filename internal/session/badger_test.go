// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/models"
)

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(config.SessionConfig{InMemory: true}, ttl)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSession(created time.Time) models.Session {
	return models.Session{
		Token:     "tok-1",
		User:      models.SessionUser{ID: 7, Name: "Alice Martin", Mail: "alice@ville.fr", Role: models.UserSuperviseur},
		CreatedAt: created,
	}
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()

	got, err := s.Load(ctx)
	if err != nil || got != nil {
		t.Fatalf("Load() on empty store = %+v, %v", got, err)
	}

	want := testSession(time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC))
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || got.Token != want.Token || got.User != want.User || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
	if got, _ := s.Load(ctx); got != nil {
		t.Errorf("Load() after Clear = %+v", got)
	}
}

func TestStore_ExpiredSessionIsIgnored(t *testing.T) {
	s := openTestStore(t, time.Hour)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Save(ctx, testSession(now.Add(-2*time.Hour))); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got, err := s.Load(ctx); err != nil || got != nil {
		t.Errorf("Load() = %+v, %v, want nil", got, err)
	}

	if err := s.Save(ctx, testSession(now.Add(-time.Minute))); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got, _ := s.Load(ctx); got == nil {
		t.Error("fresh session not returned")
	}
}

func TestStore_Revoke(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()

	if err := s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if err := s.Revoke(ctx, "jti-old", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if err := s.Revoke(ctx, "", time.Now().Add(time.Hour)); err == nil {
		t.Error("Revoke() with empty id should fail")
	}

	tests := []struct {
		jti  string
		want bool
	}{
		{"jti-1", true},
		{"jti-old", false},
		{"jti-unknown", false},
	}
	for _, tt := range tests {
		got, err := s.IsRevoked(ctx, tt.jti)
		if err != nil {
			t.Fatalf("IsRevoked(%q) error = %v", tt.jti, err)
		}
		if got != tt.want {
			t.Errorf("IsRevoked(%q) = %v, want %v", tt.jti, got, tt.want)
		}
	}
}

func TestStore_Closed(t *testing.T) {
	s, err := Open(config.SessionConfig{InMemory: true}, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := s.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Load() error = %v, want ErrClosed", err)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(config.SessionConfig{}, 0); err == nil {
		t.Error("Open() without path should fail")
	}
}

func TestStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(config.SessionConfig{Path: dir}, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Save(ctx, testSession(time.Now().UTC())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(config.SessionConfig{Path: dir}, 0)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Load(ctx)
	if err != nil || got == nil || got.User.ID != 7 {
		t.Errorf("Load() after reopen = %+v, %v", got, err)
	}
}

func TestStore_RunGC(t *testing.T) {
	mem := openTestStore(t, 0)
	if err := mem.RunGC(); err != nil {
		t.Errorf("RunGC() in memory error = %v", err)
	}

	disk, err := Open(config.SessionConfig{Path: t.TempDir()}, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := disk.RunGC(); err != nil {
		t.Errorf("RunGC() on empty disk store error = %v", err)
	}
	if err := disk.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := disk.RunGC(); !errors.Is(err, ErrClosed) {
		t.Errorf("RunGC() after Close error = %v, want ErrClosed", err)
	}
}
