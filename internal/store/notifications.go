// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/urbanwaste/internal/mapper"
	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/validation"
)

// Two notification models live side by side: Notification is generated
// and held here only, TechNotification is persisted by the backend.

// Notify adds an ephemeral notification. Missing fields default to a new
// id, role ALL, priority NORMAL and the current time.
//
//nolint:gocritic // drafts are passed by value
func (s *Store) Notify(n models.Notification) (models.Notification, error) {
	if strings.TrimSpace(n.Titre) == "" && strings.TrimSpace(n.Message) == "" {
		return models.Notification{}, validation.Fail("message", "required", "titre or message is required")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.RoleCible == "" {
		n.RoleCible = models.RoleAll
	}
	if n.Priorite == "" {
		n.Priorite = models.PriorityNormal
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	s.mutate(Change{Entity: EntityNotifications, Action: ActionAdd, ID: n.ID}, func(st *State) {
		st.Notifications = append(clone(st.Notifications), n)
	})
	return n, nil
}

// NotificationsFor returns the ephemeral notifications addressed to role
// or to ALL, newest first.
func (s *Store) NotificationsFor(role models.UserRole) []models.Notification {
	all := s.Notifications()
	out := make([]models.Notification, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].RoleCible == models.RoleAll || strings.EqualFold(all[i].RoleCible, string(role)) {
			out = append(out, all[i])
		}
	}
	return out
}

// DismissNotification removes an ephemeral notification.
func (s *Store) DismissNotification(id string) {
	s.mutate(Change{Entity: EntityNotifications, Action: ActionRemove, ID: id}, func(st *State) {
		st.Notifications = removeWhere(st.Notifications, func(n models.Notification) bool { return n.ID == id })
	})
}

// FetchTechNotifications replaces the technician notifications.
func (s *Store) FetchTechNotifications(ctx context.Context, unreadOnly bool) ([]models.TechNotification, error) {
	c := Change{Entity: EntityTechNotifications, Action: ActionFetch}
	s.begin()
	dtos, err := s.api.Technicien.Notifications(ctx, unreadOnly)
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("fetch technician notifications: %w", err), "Failed to fetch notifications", nil)
	}
	notes := s.mapper.TechNotificationsFromDTO(dtos)
	s.settle(c, func(st *State) { st.TechNotifications = notes })
	return clone(notes), nil
}

// MarkTechNotificationRead sets the persisted read flag.
func (s *Store) MarkTechNotificationRead(ctx context.Context, id int64) error {
	c := Change{Entity: EntityTechNotifications, Action: ActionRead, ID: mapper.FormatID(id)}
	s.begin()
	if err := s.api.Technicien.MarkRead(ctx, id); err != nil {
		return s.fail(ctx, c, fmt.Errorf("mark notification %d read: %w", id, err), "Failed to update notification", nil)
	}
	s.settle(c, func(st *State) {
		if i := indexOf(st.TechNotifications, func(n models.TechNotification) bool { return n.ID == id }); i >= 0 {
			n := st.TechNotifications[i]
			n.Lue = true
			st.TechNotifications = replaceAt(st.TechNotifications, i, n)
		}
	})
	return nil
}
