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

func (s *Store) FetchSignalements(ctx context.Context) ([]models.Signalement, error) {
	c := Change{Entity: EntitySignalements, Action: ActionFetch}
	s.begin()
	dtos, err := s.api.Signalements.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("fetch reports: %w", err), "Failed to fetch signalements", nil)
	}
	reports := s.mapper.SignalementsFromDTO(dtos)
	s.settle(c, func(st *State) { st.Signalements = reports })
	return clone(reports), nil
}

// AddSignalement files a report. Citizens may report without an account, so
// only the message is required.
//
//nolint:gocritic // drafts are passed by value
func (s *Store) AddSignalement(ctx context.Context, draft models.Signalement) (models.Signalement, error) {
	c := Change{Entity: EntitySignalements, Action: ActionAdd}
	s.begin()
	if strings.TrimSpace(draft.Message) == "" {
		return models.Signalement{}, s.fail(ctx, c, validation.Fail("message", "required", "message is required"), "Failed to create signalement", nil)
	}
	if draft.Type == "" {
		draft.Type = models.SignalementAutre
	}
	dto := s.mapper.SignalementToDTO(draft)
	dto.ID = 0
	created, err := s.api.Signalements.Create(ctx, dto)
	if err != nil {
		return models.Signalement{}, s.fail(ctx, c, fmt.Errorf("create report: %w", err), "Failed to create signalement", nil)
	}
	r := s.mapper.SignalementFromDTO(created)
	c.ID = r.ID
	s.settle(c, func(st *State) { st.Signalements = append(clone(st.Signalements), r) })
	return r, nil
}

// UpdateSignalementStatut changes a report's handling state.
func (s *Store) UpdateSignalementStatut(ctx context.Context, id string, statut models.SignalementStatut) (models.Signalement, error) {
	c := Change{Entity: EntitySignalements, Action: ActionStatus, ID: id}
	s.begin()
	if !statut.Valid() {
		verr := validation.Fail("statut", "oneof", fmt.Sprintf("unknown report status %q", statut))
		return models.Signalement{}, s.fail(ctx, c, verr, "Failed to update signalement", nil)
	}
	updated, err := s.api.Signalements.UpdateStatut(ctx, mapper.ParseID(id), string(statut))
	if err != nil {
		return models.Signalement{}, s.fail(ctx, c, fmt.Errorf("update report %s: %w", id, err), "Failed to update signalement", nil)
	}
	r := s.mapper.SignalementFromDTO(updated)
	s.settle(c, func(st *State) {
		i := indexOf(st.Signalements, func(x models.Signalement) bool { return x.ID == id })
		switch {
		case i >= 0 && r.ID == "0":
			// bare acknowledgement: keep the local record
			local := st.Signalements[i]
			local.Statut = statut
			st.Signalements = replaceAt(st.Signalements, i, local)
			r = local
		case i >= 0:
			st.Signalements = replaceAt(st.Signalements, i, r)
		default:
			st.Signalements = append(clone(st.Signalements), r)
		}
	})
	return r, nil
}

// SignalementsByEmploye lists the reports filed by one employee without
// touching local state.
func (s *Store) SignalementsByEmploye(ctx context.Context, employeID string) ([]models.Signalement, error) {
	c := Change{Entity: EntitySignalements, Action: ActionQuery}
	s.begin()
	dtos, err := s.api.Signalements.ByEmploye(ctx, mapper.ParseID(employeID))
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("reports of employee %s: %w", employeID, err), "Failed to fetch signalements", nil)
	}
	s.settle(c, nil)
	return s.mapper.SignalementsFromDTO(dtos), nil
}
