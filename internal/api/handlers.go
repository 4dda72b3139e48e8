// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/urbanwaste/internal/auth"
	"github.com/tomtom215/urbanwaste/internal/validation"
)

// maxJSONBody bounds request bodies other than XML uploads.
const maxJSONBody = 1 << 20

// Handler holds the HTTP handlers of the gateway.
type Handler struct {
	deps      Deps
	auth      *auth.Middleware
	startTime time.Time
}

// NewHandler creates the handlers over deps.
func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps, startTime: time.Now()}
}

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status       string  `json:"status"`
	Version      string  `json:"version"`
	Uptime       float64 `json:"uptime_seconds"`
	Breaker      string  `json:"circuit_breaker,omitempty"`
	Events       string  `json:"events,omitempty"`
	Clients      int     `json:"websocket_clients"`
	Loading      bool    `json:"loading"`
	LastError    string  `json:"last_error,omitempty"`
	AuthEnabled  bool    `json:"auth_enabled"`
	LoggedInAs   string  `json:"logged_in_as,omitempty"`
	LoggedInRole string  `json:"logged_in_role,omitempty"`
	SessionSince string  `json:"session_created_at,omitempty"`
}

// Version is set at build time via -ldflags.
var Version = "dev"

// Health reports gateway status. The gateway is degraded while the backend
// breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:      "healthy",
		Version:     Version,
		Uptime:      time.Since(h.startTime).Seconds(),
		Events:      h.deps.EventsBackend,
		AuthEnabled: h.deps.Config.Security.AuthEnabled,
	}
	if h.deps.Breaker != nil {
		status.Breaker = h.deps.Breaker()
		if status.Breaker == "open" {
			status.Status = "degraded"
		}
	}
	if h.deps.Hub != nil {
		status.Clients = h.deps.Hub.GetClientCount()
	}
	if h.deps.Store != nil {
		status.Loading = h.deps.Store.IsLoading()
		status.LastError = h.deps.Store.Error()
		if sess := h.deps.Store.Session(); sess != nil {
			status.LoggedInAs = sess.User.Name
			status.LoggedInRole = string(sess.User.Role)
			status.SessionSince = sess.CreatedAt.Format(time.RFC3339)
		}
	}
	NewResponseWriter(w, r).Success(status)
}

// State returns the full store snapshot. The backend token never leaves
// the gateway.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.deps.Store.Snapshot()
	if snap.Session != nil {
		sess := *snap.Session
		sess.Token = ""
		snap.Session = &sess
	}
	NewResponseWriter(w, r).Success(snap)
}

// WebSocket upgrades to the change feed.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.deps.Hub == nil {
		NewResponseWriter(w, r).Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Change feed is not available")
		return
	}
	h.deps.Hub.ServeWS(w, r)
}

// decodeJSON reads a JSON body into dst. An empty or malformed body is a
// validation error on "body".
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return validation.Fail("body", "required", "request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validation.Fail("body", "max", "request body is too large")
		}
		return validation.Fail("body", "json", "invalid JSON: "+err.Error())
	}
	return nil
}

// pathID returns the numeric {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Fail("id", "numeric", "id must be a positive number")
	}
	return id, nil
}

// pathString returns the non-empty string {id} URL parameter.
func pathString(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", validation.Fail("id", "required", "id is required")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, validation.Fail(name, "numeric", name+" must be a number")
	}
	return v, true, nil
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
