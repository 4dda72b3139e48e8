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

// validateEmploye checks the fields the backend rejects when empty.
//
//nolint:gocritic // Employe is copied on purpose
func validateEmploye(e models.Employe) error {
	if strings.TrimSpace(e.Nom) == "" || strings.TrimSpace(e.Prenom) == "" {
		return validation.Fail("nom", "required", "Nom and prenom are required")
	}
	return nil
}

// FetchEmployes replaces the local employees. Address and hire date are
// kept from the previous local records since the backend does not store
// them.
func (s *Store) FetchEmployes(ctx context.Context) ([]models.Employe, error) {
	c := Change{Entity: EntityEmployes, Action: ActionFetch}
	s.begin()
	dtos, err := s.api.Employes.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("fetch employees: %w", err), "Failed to fetch employees", nil)
	}

	previous := s.Employes()
	byID := make(map[string]*models.Employe, len(previous))
	for i := range previous {
		byID[previous[i].ID] = &previous[i]
	}
	employes := make([]models.Employe, 0, len(dtos))
	for i := range dtos {
		employes = append(employes, s.mapper.EmployeFromDTO(dtos[i], byID[mapper.FormatID(dtos[i].ID)]))
	}

	s.settle(c, func(st *State) { st.Employes = employes })
	return clone(employes), nil
}

// AddEmploye creates an employee. A missing mail and a telephone whose
// digits parse to 0 are replaced by placeholders.
//
//nolint:gocritic // drafts are passed by value
func (s *Store) AddEmploye(ctx context.Context, draft models.Employe) (models.Employe, error) {
	c := Change{Entity: EntityEmployes, Action: ActionAdd}
	s.begin()
	if err := validateEmploye(draft); err != nil {
		return models.Employe{}, s.fail(ctx, c, err, "Failed to create employee", nil)
	}
	created, err := s.api.Employes.Create(ctx, s.mapper.EmployeToDTO(draft, true))
	if err != nil {
		return models.Employe{}, s.fail(ctx, c, fmt.Errorf("create employee: %w", err), "Failed to create employee", nil)
	}
	e := s.mapper.EmployeFromDTO(created, &draft)
	c.ID = e.ID
	s.settle(c, func(st *State) { st.Employes = append(clone(st.Employes), e) })
	return e, nil
}

func (s *Store) UpdateEmploye(ctx context.Context, id string, patch models.EmployePatch) (models.Employe, error) {
	c := Change{Entity: EntityEmployes, Action: ActionUpdate, ID: id}
	s.begin()

	current, ok := s.findEmploye(id)
	if !ok {
		return models.Employe{}, s.fail(ctx, c, notFound("Employee", id), "Failed to update employee", nil)
	}
	merged := patch.Apply(current)
	if err := validateEmploye(merged); err != nil {
		return models.Employe{}, s.fail(ctx, c, err, "Failed to update employee", nil)
	}

	updated, err := s.api.Employes.Update(ctx, mapper.ParseID(id), s.mapper.EmployeToDTO(merged, false))
	if err != nil {
		return models.Employe{}, s.fail(ctx, c, fmt.Errorf("update employee %s: %w", id, err), "Failed to update employee", nil)
	}
	e := s.mapper.EmployeFromDTO(updated, &merged)
	s.settle(c, func(st *State) { st.Employes = upsertEmploye(st.Employes, e) })
	return e, nil
}

func (s *Store) RemoveEmploye(ctx context.Context, id string) error {
	c := Change{Entity: EntityEmployes, Action: ActionRemove, ID: id}
	s.begin()
	if err := s.api.Employes.Delete(ctx, mapper.ParseID(id)); err != nil {
		return s.fail(ctx, c, fmt.Errorf("delete employee %s: %w", id, err), "Failed to delete employee", nil)
	}
	s.settle(c, func(st *State) {
		st.Employes = removeWhere(st.Employes, func(e models.Employe) bool { return e.ID == id })
	})
	return nil
}

// SearchEmployes queries the backend by name without touching local state.
func (s *Store) SearchEmployes(ctx context.Context, name string) ([]models.Employe, error) {
	c := Change{Entity: EntityEmployes, Action: ActionQuery}
	s.begin()
	dtos, err := s.api.Employes.Search(ctx, name)
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("search employees: %w", err), "Failed to fetch employees", nil)
	}
	s.settle(c, nil)
	return s.mapper.EmployesFromDTO(dtos), nil
}

func (s *Store) findEmploye(id string) (models.Employe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.st.Employes, func(e models.Employe) bool { return e.ID == id })
	if i < 0 {
		return models.Employe{}, false
	}
	return s.st.Employes[i], true
}

//nolint:gocritic // Employe is copied on purpose
func upsertEmploye(es []models.Employe, e models.Employe) []models.Employe {
	if i := indexOf(es, func(x models.Employe) bool { return x.ID == e.ID }); i >= 0 {
		return replaceAt(es, i, e)
	}
	return append(clone(es), e)
}
