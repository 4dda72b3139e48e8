// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/urbanwaste/internal/mapper"
	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/validation"
)

// Accounts managed through the per-role endpoints. EMPLOYE accounts are
// field employees and go through the employee actions instead.

func userLabel(role models.UserRole) string {
	return strings.ToLower(string(role))
}

func (s *Store) FetchUsers(ctx context.Context, role models.UserRole) ([]models.User, error) {
	c := Change{Entity: EntityUsers, Action: ActionFetch}
	s.begin()
	dtos, err := s.api.Users.List(ctx, role)
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("fetch %s accounts: %w", userLabel(role), err), "Failed to fetch users", nil)
	}
	users := s.mapper.UsersFromDTO(dtos, role)
	s.settle(c, func(st *State) { st.Users = withUsers(st.Users, role, users) })
	return clone(users), nil
}

//nolint:gocritic // drafts are passed by value
func (s *Store) AddUser(ctx context.Context, role models.UserRole, draft models.User) (models.User, error) {
	c := Change{Entity: EntityUsers, Action: ActionAdd}
	s.begin()
	draft.Role = role
	if verr := validation.ValidateStruct(draft); verr != nil {
		return models.User{}, s.fail(ctx, c, verr, "Failed to create user", nil)
	}
	created, err := s.api.Users.Create(ctx, role, s.mapper.UserToDTO(draft, true))
	if err != nil {
		return models.User{}, s.fail(ctx, c, fmt.Errorf("create %s account: %w", userLabel(role), err), "Failed to create user", nil)
	}
	u := s.mapper.UserFromDTO(created, role)
	c.ID = mapper.FormatID(u.ID)
	s.settle(c, func(st *State) { st.Users = withUsers(st.Users, role, append(clone(st.Users[role]), u)) })
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, role models.UserRole, id int64, patch models.UserPatch) (models.User, error) {
	c := Change{Entity: EntityUsers, Action: ActionUpdate, ID: mapper.FormatID(id)}
	s.begin()

	s.mu.RLock()
	i := indexOf(s.st.Users[role], func(u models.User) bool { return u.ID == id })
	var current models.User
	if i >= 0 {
		current = s.st.Users[role][i]
	}
	s.mu.RUnlock()
	if i < 0 {
		return models.User{}, s.fail(ctx, c, notFound("User", c.ID), "Failed to update user", nil)
	}

	merged := patch.Apply(current)
	if verr := validation.ValidateStruct(merged); verr != nil {
		return models.User{}, s.fail(ctx, c, verr, "Failed to update user", nil)
	}
	updated, err := s.api.Users.Update(ctx, role, id, s.mapper.UserToDTO(merged, false))
	if err != nil {
		return models.User{}, s.fail(ctx, c, fmt.Errorf("update %s account %d: %w", userLabel(role), id, err), "Failed to update user", nil)
	}
	u := s.mapper.UserFromDTO(updated, role)
	s.settle(c, func(st *State) {
		users := clone(st.Users[role])
		if j := indexOf(users, func(x models.User) bool { return x.ID == u.ID }); j >= 0 {
			users[j] = u
		} else {
			users = append(users, u)
		}
		st.Users = withUsers(st.Users, role, users)
	})
	return u, nil
}

func (s *Store) RemoveUser(ctx context.Context, role models.UserRole, id int64) error {
	c := Change{Entity: EntityUsers, Action: ActionRemove, ID: mapper.FormatID(id)}
	s.begin()
	if err := s.api.Users.Delete(ctx, role, id); err != nil {
		return s.fail(ctx, c, fmt.Errorf("delete %s account %d: %w", userLabel(role), id, err), "Failed to delete user", nil)
	}
	s.settle(c, func(st *State) {
		st.Users = withUsers(st.Users, role, removeWhere(st.Users[role], func(u models.User) bool { return u.ID == id }))
	})
	return nil
}

// withUsers returns a copy of m with role set to users.
func withUsers(m map[models.UserRole][]models.User, role models.UserRole, users []models.User) map[models.UserRole][]models.User {
	out := make(map[models.UserRole][]models.User, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[role] = users
	return out
}
