// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/urbanwaste/internal/auth"
	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/validation"
)

// ========================
// Accounts
// ========================

// pathRole reads {role}: "admin", "superviseur" or "technicien", singular
// or plural, any case.
func pathRole(r *http.Request) (models.UserRole, error) {
	raw := chi.URLParam(r, "role")
	role := models.UserRole(strings.TrimSuffix(strings.ToUpper(raw), "S"))
	switch role {
	case models.UserAdmin, models.UserSuperviseur, models.UserTechnicien:
		return role, nil
	}
	return "", validation.Fail("role", "oneof", fmt.Sprintf("no account endpoint for role %q", raw))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role, err := pathRole(r)
	if err != nil {
		respondError(w, r, err, "Failed to fetch users")
		return
	}
	users, err := h.deps.Store.FetchUsers(r.Context(), role)
	if err != nil {
		respondError(w, r, err, "Failed to fetch users")
		return
	}
	NewResponseWriter(w, r).List(users, len(users))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	role, err := pathRole(r)
	if err != nil {
		respondError(w, r, err, "Failed to create user")
		return
	}
	var draft models.User
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(w, r, err, "Failed to create user")
		return
	}
	u, err := h.deps.Store.AddUser(r.Context(), role, draft)
	if err != nil {
		respondError(w, r, err, "Failed to create user")
		return
	}
	u.Password = ""
	NewResponseWriter(w, r).Created(u)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	role, err := pathRole(r)
	if err != nil {
		respondError(w, r, err, "Failed to update user")
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to update user")
		return
	}
	var patch models.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err, "Failed to update user")
		return
	}
	u, err := h.deps.Store.UpdateUser(r.Context(), role, id, patch)
	if err != nil {
		respondError(w, r, err, "Failed to update user")
		return
	}
	u.Password = ""
	NewResponseWriter(w, r).Success(u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	role, err := pathRole(r)
	if err != nil {
		respondError(w, r, err, "Failed to delete user")
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to delete user")
		return
	}
	if err := h.deps.Store.RemoveUser(r.Context(), role, id); err != nil {
		respondError(w, r, err, "Failed to delete user")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// ========================
// Notifications
// ========================

// ListNotifications returns the ephemeral notifications for the caller's
// role, or for ?role= when the caller is anonymous. Without either only
// the ALL notifications are listed.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	role := models.UserRole(auth.RoleFromContext(r.Context()))
	if !role.Valid() {
		role = models.UserRole(strings.ToUpper(r.URL.Query().Get("role")))
	}
	notes := h.deps.Store.NotificationsFor(role)
	NewResponseWriter(w, r).List(notes, len(notes))
}

func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var draft models.Notification
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(w, r, err, "Failed to add notification")
		return
	}
	n, err := h.deps.Store.Notify(draft)
	if err != nil {
		respondError(w, r, err, "Failed to add notification")
		return
	}
	NewResponseWriter(w, r).Created(n)
}

func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r)
	if err != nil {
		respondError(w, r, err, "Failed to dismiss notification")
		return
	}
	h.deps.Store.DismissNotification(id)
	NewResponseWriter(w, r).NoContent()
}

// ListTechNotifications fetches the backend-persisted technician
// notifications. ?unreadOnly=true skips the read ones.
func (h *Handler) ListTechNotifications(w http.ResponseWriter, r *http.Request) {
	notes, err := h.deps.Store.FetchTechNotifications(r.Context(), queryBool(r, "unreadOnly"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch notifications")
		return
	}
	NewResponseWriter(w, r).List(notes, len(notes))
}

func (h *Handler) MarkTechNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to update notification")
		return
	}
	if err := h.deps.Store.MarkTechNotificationRead(r.Context(), id); err != nil {
		respondError(w, r, err, "Failed to update notification")
		return
	}
	NewResponseWriter(w, r).NoContent()
}
