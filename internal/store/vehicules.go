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

func (s *Store) FetchVehicules(ctx context.Context) ([]models.Vehicule, error) {
	c := Change{Entity: EntityVehicules, Action: ActionFetch}
	s.begin()
	dtos, err := s.api.Vehicules.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("fetch vehicles: %w", err), "Failed to fetch vehicles", nil)
	}
	vehicules := s.mapper.VehiculesFromDTO(dtos)
	s.settle(c, func(st *State) { st.Vehicules = vehicules })
	return clone(vehicules), nil
}

// AddVehicule validates the draft (type required, capacity > 0), creates it
// and inserts the server record.
//
//nolint:gocritic // drafts are passed by value
func (s *Store) AddVehicule(ctx context.Context, draft models.Vehicule) (models.Vehicule, error) {
	c := Change{Entity: EntityVehicules, Action: ActionAdd}
	s.begin()
	draft.Type = strings.TrimSpace(draft.Type)
	if verr := validation.ValidateStruct(draft); verr != nil {
		return models.Vehicule{}, s.fail(ctx, c, verr, "Failed to create vehicle", nil)
	}
	created, err := s.api.Vehicules.Create(ctx, s.mapper.VehiculeToDTO(draft, true))
	if err != nil {
		return models.Vehicule{}, s.fail(ctx, c, fmt.Errorf("create vehicle: %w", err), "Failed to create vehicle", nil)
	}
	v := s.mapper.VehiculeFromDTO(created)
	c.ID = mapper.FormatID(v.ID)
	s.settle(c, func(st *State) { st.Vehicules = append(clone(st.Vehicules), v) })
	return v, nil
}

func (s *Store) UpdateVehicule(ctx context.Context, id int64, patch models.VehiculePatch) (models.Vehicule, error) {
	c := Change{Entity: EntityVehicules, Action: ActionUpdate, ID: mapper.FormatID(id)}
	s.begin()

	current, ok := s.findVehicule(id)
	if !ok {
		return models.Vehicule{}, s.fail(ctx, c, notFound("Vehicle", c.ID), "Failed to update vehicle", nil)
	}
	merged := patch.Apply(current)
	merged.Type = strings.TrimSpace(merged.Type)
	if verr := validation.ValidateStruct(merged); verr != nil {
		return models.Vehicule{}, s.fail(ctx, c, verr, "Failed to update vehicle", nil)
	}

	updated, err := s.api.Vehicules.Update(ctx, id, s.mapper.VehiculeToDTO(merged, false))
	if err != nil {
		return models.Vehicule{}, s.fail(ctx, c, fmt.Errorf("update vehicle %d: %w", id, err), "Failed to update vehicle", nil)
	}
	v := s.mapper.VehiculeFromDTO(updated)
	s.settle(c, func(st *State) { st.Vehicules = upsertVehicule(st.Vehicules, v) })
	return v, nil
}

// SetVehiculeStatus goes through the technician endpoint. Moving a vehicle
// to EN_PANNE makes the backend raise a technician notification, which a
// later FetchTechNotifications picks up.
func (s *Store) SetVehiculeStatus(ctx context.Context, id int64, status models.VehiculeStatut) (models.Vehicule, error) {
	c := Change{Entity: EntityVehicules, Action: ActionStatus, ID: mapper.FormatID(id)}
	s.begin()
	if !status.Valid() {
		verr := validation.Fail("statut", "oneof", fmt.Sprintf("unknown vehicle status %q", status))
		return models.Vehicule{}, s.fail(ctx, c, verr, "Failed to update vehicle", nil)
	}
	updated, err := s.api.Technicien.UpdateVehiculeStatus(ctx, id, string(status))
	if err != nil {
		return models.Vehicule{}, s.fail(ctx, c, fmt.Errorf("update status of vehicle %d: %w", id, err), "Failed to update vehicle", nil)
	}
	v := s.mapper.VehiculeFromDTO(updated)
	if v.ID == 0 {
		// Some backend builds answer with a bare message. Only a vehicle
		// already held locally is patched.
		current, ok := s.findVehicule(id)
		if !ok {
			s.settle(c, nil)
			return models.Vehicule{ID: id, Statut: status, Etat: status}, nil
		}
		current.Statut, current.Etat = status, status
		v = current
	}
	s.settle(c, func(st *State) { st.Vehicules = upsertVehicule(st.Vehicules, v) })
	return v, nil
}

func (s *Store) RemoveVehicule(ctx context.Context, id int64) error {
	c := Change{Entity: EntityVehicules, Action: ActionRemove, ID: mapper.FormatID(id)}
	s.begin()
	if err := s.api.Vehicules.Delete(ctx, id); err != nil {
		return s.fail(ctx, c, fmt.Errorf("delete vehicle %d: %w", id, err), "Failed to delete vehicle", nil)
	}
	s.settle(c, func(st *State) {
		st.Vehicules = removeWhere(st.Vehicules, func(v models.Vehicule) bool { return v.ID == id })
	})
	return nil
}

// VehiculesByStatus queries the backend without touching local state.
func (s *Store) VehiculesByStatus(ctx context.Context, status models.VehiculeStatut) ([]models.Vehicule, error) {
	c := Change{Entity: EntityVehicules, Action: ActionQuery}
	s.begin()
	dtos, err := s.api.Vehicules.ByStatus(ctx, string(status))
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("vehicles by status: %w", err), "Failed to fetch vehicles", nil)
	}
	s.settle(c, nil)
	return s.mapper.VehiculesFromDTO(dtos), nil
}

func (s *Store) findVehicule(id int64) (models.Vehicule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.st.Vehicules, func(v models.Vehicule) bool { return v.ID == id })
	if i < 0 {
		return models.Vehicule{}, false
	}
	return s.st.Vehicules[i], true
}

//nolint:gocritic // Vehicule is copied on purpose
func upsertVehicule(vs []models.Vehicule, v models.Vehicule) []models.Vehicule {
	if i := indexOf(vs, func(x models.Vehicule) bool { return x.ID == v.ID }); i >= 0 {
		return replaceAt(vs, i, v)
	}
	return append(clone(vs), v)
}
