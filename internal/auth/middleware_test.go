// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/session"
)

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func (m *memoryRevoker) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Time{}
	}
	m.revoked[jti] = expiresAt
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

// echoRole writes the resolved role.
var echoRole = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(RoleFromContext(r.Context())))
})

func TestIdentify(t *testing.T) {
	manager := newTestManager(t)
	revoker := &memoryRevoker{}
	mw := NewMiddleware(manager, revoker)

	token, _, err := manager.GenerateToken(alice)
	if err != nil {
		t.Fatal(err)
	}
	revokedToken, revokedClaims, _ := manager.GenerateToken(alice)
	if err := mw.Revoke(context.Background(), revokedClaims); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{"anonymous", "", "", http.StatusOK, RoleAnonymous},
		{"bearer", "Bearer " + token, "", http.StatusOK, "ADMIN"},
		{"lowercase scheme", "bearer " + token, "", http.StatusOK, "ADMIN"},
		{"cookie", "", token, http.StatusOK, "ADMIN"},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", http.StatusUnauthorized, ""},
		{"empty bearer", "Bearer ", "", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer abc.def.ghi", "", http.StatusUnauthorized, ""},
		{"revoked", "Bearer " + revokedToken, "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			mw.Identify(echoRole).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestIdentify_RevocationStoreError(t *testing.T) {
	manager := newTestManager(t)
	mw := NewMiddleware(manager, &memoryRevoker{err: errors.New("disk gone")})
	token, _, _ := manager.GenerateToken(alice)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Identify(echoRole).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	manager := newTestManager(t)
	mw := NewMiddleware(manager, nil)
	token, _, _ := manager.GenerateToken(alice)
	h := mw.Identify(mw.RequireAuth(echoRole))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}
}

func TestRevoke_WithBadgerStore(t *testing.T) {
	sessions, err := session.Open(config.SessionConfig{InMemory: true}, time.Hour)
	if err != nil {
		t.Fatalf("session.Open() error = %v", err)
	}
	defer sessions.Close()

	manager := newTestManager(t)
	mw := NewMiddleware(manager, sessions)
	token, claims, _ := manager.GenerateToken(alice)

	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.Identify(echoRole).ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call(); code != http.StatusOK {
		t.Fatalf("before logout status = %d, want 200", code)
	}
	if err := mw.Revoke(context.Background(), claims); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if code := call(); code != http.StatusUnauthorized {
		t.Errorf("after logout status = %d, want 401", code)
	}
}

func TestClaimsFromContext(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Error("empty context should have no claims")
	}
	ctx := WithClaims(context.Background(), &Claims{Role: "TECHNICIEN"})
	if got := RoleFromContext(ctx); got != "TECHNICIEN" {
		t.Errorf("RoleFromContext() = %q", got)
	}
	if got := RoleFromContext(WithClaims(context.Background(), nil)); got != RoleAnonymous {
		t.Errorf("nil claims role = %q, want anonymous", got)
	}
}
