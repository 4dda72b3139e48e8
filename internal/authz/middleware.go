// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package authz

import (
	"net/http"

	"github.com/tomtom215/urbanwaste/internal/auth"
	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/metrics"
)

// methodActions maps HTTP methods to policy actions. Unlisted methods
// are reads.
var methodActions = map[string]string{
	http.MethodPost:   ActionWrite,
	http.MethodPut:    ActionWrite,
	http.MethodPatch:  ActionWrite,
	http.MethodDelete: ActionDelete,
}

func methodToAction(method string) string {
	if a, ok := methodActions[method]; ok {
		return a
	}
	return ActionRead
}

type Middleware struct {
	enforcer *Enforcer
}

func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// AuthorizeRequest checks the caller's role against the request path. It
// runs after auth.Identify. A denied anonymous caller gets 401 so the
// dashboard prompts for login; a denied role gets 403.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := auth.RoleFromContext(r.Context())

		allowed, err := m.enforcer.Enforce(role, r.URL.Path, methodToAction(r.Method))
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Str("role", role).Msg("Authorization error")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		metrics.RecordAuthzDecision(role, allowed)

		switch {
		case allowed:
			next.ServeHTTP(w, r)
		case role == auth.RoleAnonymous:
			http.Error(w, "Unauthorized: authentication required", http.StatusUnauthorized)
		default:
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		}
	})
}
