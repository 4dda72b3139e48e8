// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/mapper"
	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/validation"
)

// Login authenticates against the backend and persists the session. The
// display name is "prenom nom". A token in the response is used as the
// bearer for later calls.
//
// The store holds a single backend bearer. A gateway serving several
// dashboard users forwards every call with the token of the most recent
// login, so deployments are single-operator.
func (s *Store) Login(ctx context.Context, mail, password string) (models.Session, error) {
	c := Change{Entity: EntitySession, Action: ActionLogin}
	s.begin()
	req := models.LoginRequest{Mail: strings.TrimSpace(mail), Password: password}
	if verr := validation.ValidateStruct(req); verr != nil {
		return models.Session{}, s.fail(ctx, c, verr, "Login failed", nil)
	}

	resp, err := s.api.Auth.Login(ctx, req)
	if err != nil {
		return models.Session{}, s.fail(ctx, c, fmt.Errorf("login: %w", err), "Login failed", nil)
	}
	sess := s.mapper.SessionFromLogin(resp, req.Mail, s.now())
	if sess.Token != "" && s.api.Token != nil {
		s.api.Token.SetToken(sess.Token)
	}
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, sess); err != nil {
			// the login itself succeeded
			logging.Ctx(ctx).Warn().Err(err).Str("entity", EntitySession).Msg("Failed to persist session")
		}
	}

	c.ID = mapper.FormatID(sess.User.ID)
	s.settle(c, func(st *State) {
		saved := sess
		st.Session = &saved
	})
	return sess, nil
}

// Logout forgets the session locally and in the persistent store.
func (s *Store) Logout(ctx context.Context) error {
	var err error
	if s.sessions != nil {
		err = s.sessions.Clear(ctx)
	}
	if s.api.Token != nil {
		s.api.Token.SetToken("")
	}
	s.mutate(Change{Entity: EntitySession, Action: ActionLogout}, func(st *State) {
		st.Session = nil
		st.Error = ""
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// RestoreSession loads a persisted session, if any, into the store.
func (s *Store) RestoreSession(ctx context.Context) (*models.Session, error) {
	if s.sessions == nil {
		return nil, nil
	}
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	if sess.Token != "" && s.api.Token != nil {
		s.api.Token.SetToken(sess.Token)
	}
	restored := *sess
	s.mutate(Change{Entity: EntitySession, Action: ActionLogin, ID: mapper.FormatID(sess.User.ID)}, func(st *State) {
		st.Session = &restored
	})
	return sess, nil
}
