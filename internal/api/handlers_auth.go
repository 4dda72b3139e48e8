// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"net/http"

	"github.com/tomtom215/urbanwaste/internal/auth"
	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/models"
)

// tokenCookie carries the gateway token for browsers.
const tokenCookie = "token"

// Login authenticates against the backend and, when token signing is
// configured, answers with a gateway JWT for the session user.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, "Login failed")
		return
	}
	if h.deps.Config.Security.AuthEnabled && h.auth == nil {
		respondError(w, r, ErrAuthUnavailable, "Login failed")
		return
	}

	sess, err := h.deps.Store.Login(r.Context(), req.Mail, req.Password)
	if err != nil {
		respondError(w, r, err, "Login failed")
		return
	}

	resp := LoginResponse{User: sess.User}
	if h.deps.JWT != nil {
		token, claims, err := h.deps.JWT.GenerateToken(sess.User)
		if err != nil {
			respondError(w, r, err, "Failed to issue token")
			return
		}
		exp := claims.ExpiresAt.Time
		resp.Token = token
		resp.ExpiresAt = &exp
		http.SetCookie(w, &http.Cookie{
			Name:     tokenCookie,
			Value:    token,
			Path:     "/",
			Expires:  exp,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteStrictMode,
		})
	}

	logging.Ctx(r.Context()).Info().
		Int64("user_id", sess.User.ID).
		Str("role", string(sess.User.Role)).
		Msg("User logged in")
	NewResponseWriter(w, r).Success(resp)
}

// Logout clears the stored session and revokes the caller's token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && h.auth != nil {
		if err := h.auth.Revoke(r.Context(), claims); err != nil {
			respondError(w, r, err, "Logout failed")
			return
		}
	}
	if err := h.deps.Store.Logout(r.Context()); err != nil {
		// local state is already cleared
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to clear persisted session")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	NewResponseWriter(w, r).NoContent()
}
