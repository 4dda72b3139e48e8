// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/metrics"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// RoleAnonymous is the subject of requests without credentials.
const RoleAnonymous = "anonymous"

// Revoker keeps the list of logged-out token IDs.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Middleware resolves the caller of each request.
type Middleware struct {
	jwtManager *JWTManager
	revoker    Revoker
}

// NewMiddleware creates the middleware. revoker may be nil, in which case
// logout cannot invalidate tokens early.
func NewMiddleware(jwtManager *JWTManager, revoker Revoker) *Middleware {
	return &Middleware{jwtManager: jwtManager, revoker: revoker}
}

// Identify attaches the token's claims to the request context. Requests
// without a token continue as anonymous; a bad or revoked token is a 401.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("malformed_header").Inc()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		if m.revoker != nil {
			revoked, err := m.revoker.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Revocation check failed")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if revoked {
				metrics.AuthFailures.WithLabelValues("revoked").Inc()
				http.Error(w, "Unauthorized: token revoked", http.StatusUnauthorized)
				return
			}
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			metrics.AuthFailures.WithLabelValues("missing_token").Inc()
			http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Revoke invalidates the token described by claims until it expires.
func (m *Middleware) Revoke(ctx context.Context, claims *Claims) error {
	if m.revoker == nil || claims == nil {
		return nil
	}
	exp := time.Now().Add(m.jwtManager.timeout)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return m.revoker.Revoke(ctx, claims.ID, exp)
}

// ClaimsFromContext returns the caller's claims, if authenticated.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// RoleFromContext returns the caller's role or RoleAnonymous.
func RoleFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok && claims.Role != "" {
		return string(claims.Role)
	}
	return RoleAnonymous
}

// WithClaims returns a context carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// extractToken reads a bearer token from the Authorization header or the
// "token" cookie. No credentials yield an empty token.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", nil
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("unauthorized: invalid authorization header")
	}
	return parts[1], nil
}
