// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/urbanwaste/internal/mapper"
	"github.com/tomtom215/urbanwaste/internal/models"
)

// TempIDPrefix marks routes inserted optimistically and not yet confirmed.
const TempIDPrefix = "temp-"

// IsTempID reports whether id belongs to an unconfirmed route.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

func (s *Store) FetchTournees(ctx context.Context) ([]models.Tournee, error) {
	c := Change{Entity: EntityTournees, Action: ActionFetch}
	s.begin()
	dtos, err := s.api.Tournees.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("fetch routes: %w", err), "Failed to fetch tournees", nil)
	}
	tournees := s.mapper.TourneesFromDTO(dtos)

	// TrajetOptimise is local only
	previous := s.Tournees()
	optimised := make(map[string]bool, len(previous))
	for _, t := range previous {
		optimised[t.ID] = t.TrajetOptimise
	}
	for i := range tournees {
		tournees[i].TrajetOptimise = optimised[tournees[i].ID]
	}

	s.settle(c, func(st *State) { st.Tournees = tournees })
	return cloneTournees(tournees), nil
}

// checkRouteRefs enforces that a route names a vehicle and at least one
// employee known locally.
//
//nolint:gocritic // Tournee is copied on purpose
func checkRouteRefs(t models.Tournee, refs mapper.Refs) error {
	if indexOf(refs.Vehicules, func(v models.Vehicule) bool { return mapper.FormatID(v.ID) == t.VehiculeID }) < 0 {
		return fmt.Errorf("%w: %q", ErrMissingVehicle, t.VehiculeID)
	}
	for _, id := range t.EmployeIDs {
		if indexOf(refs.Employes, func(e models.Employe) bool { return e.ID == id }) >= 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrMissingEmployee, t.EmployeIDs)
}

// AddTournee creates a route optimistically. A record with id
// temp-<unix millis> is inserted at once; it is replaced by the server
// record on success and removed on failure.
//
//nolint:gocritic // drafts are passed by value
func (s *Store) AddTournee(ctx context.Context, draft models.Tournee) (models.Tournee, error) {
	c := Change{Entity: EntityTournees, Action: ActionAdd}
	s.begin()

	refs := s.refs()
	if err := checkRouteRefs(draft, refs); err != nil {
		return models.Tournee{}, s.fail(ctx, c, err, "Failed to create tournee", nil)
	}
	if draft.Statut == "" {
		draft.Statut = models.TourneePlanifiee
	}
	if draft.EmployeIDs == nil {
		draft.EmployeIDs = []string{}
	}
	if draft.PointsCollecteIDs == nil {
		draft.PointsCollecteIDs = []string{}
	}

	var tempID string
	s.mutate(Change{Entity: EntityTournees, Action: ActionAdd}, func(st *State) {
		tempID = s.nextTempID(st.Tournees)
		optimistic := draft
		optimistic.ID = tempID
		st.Tournees = append(cloneTournees(st.Tournees), optimistic)
	})
	c.ID = tempID

	created, err := s.api.Tournees.Create(ctx, s.mapper.TourneeToDTO(draft, refs, true))
	if err != nil {
		return models.Tournee{}, s.fail(ctx, c, fmt.Errorf("create route: %w", err), "Failed to create tournee", func(st *State) {
			st.Tournees = removeWhere(st.Tournees, func(t models.Tournee) bool { return t.ID == tempID })
		})
	}

	t := s.mapper.TourneeFromDTO(created)
	t.TrajetOptimise = draft.TrajetOptimise
	c.ID = t.ID
	s.settle(c, func(st *State) {
		if i := indexOf(st.Tournees, func(x models.Tournee) bool { return x.ID == tempID }); i >= 0 {
			st.Tournees = replaceAt(st.Tournees, i, t)
			return
		}
		st.Tournees = append(cloneTournees(st.Tournees), t)
	})
	return t, nil
}

// nextTempID must be called with mu held.
func (s *Store) nextTempID(existing []models.Tournee) string {
	ms := s.now().UnixMilli()
	for {
		id := TempIDPrefix + strconv.FormatInt(ms, 10)
		if indexOf(existing, func(t models.Tournee) bool { return t.ID == id }) < 0 {
			return id
		}
		ms++
	}
}

// UpdateTournee merges patch and PUTs the full route payload rebuilt from
// local references. A status change must be a valid transition.
func (s *Store) UpdateTournee(ctx context.Context, id string, patch models.TourneePatch) (models.Tournee, error) {
	c := Change{Entity: EntityTournees, Action: ActionUpdate, ID: id}
	s.begin()
	current, ok := s.findTournee(id)
	if !ok {
		return models.Tournee{}, s.fail(ctx, c, notFound("Tournee", id), "Failed to update tournee", nil)
	}
	merged := patch.Apply(current)
	if merged.Statut != current.Statut && !current.Statut.CanTransition(merged.Statut) {
		return models.Tournee{}, s.fail(ctx, c, transitionError(current.Statut, merged.Statut), "Failed to update tournee", nil)
	}
	return s.putTournee(ctx, c, merged, "Failed to update tournee")
}

// UpdateTourneeStatut moves a route along PLANIFIEE → EN_COURS → TERMINEE
// (ANNULEE and RETARDEE as side branches). Backward moves fail with
// ErrInvalidTransition before any network call.
func (s *Store) UpdateTourneeStatut(ctx context.Context, id string, statut models.TourneeStatut) (models.Tournee, error) {
	c := Change{Entity: EntityTournees, Action: ActionStatus, ID: id}
	s.begin()
	current, ok := s.findTournee(id)
	if !ok {
		return models.Tournee{}, s.fail(ctx, c, notFound("Tournee", id), "Failed to update tournee", nil)
	}
	if !current.Statut.CanTransition(statut) {
		return models.Tournee{}, s.fail(ctx, c, transitionError(current.Statut, statut), "Failed to update tournee", nil)
	}
	next := current
	next.Statut = statut
	return s.putTournee(ctx, c, next, "Failed to update tournee")
}

// AssignAgent makes employeID the route's primary agent. The employee and
// the route's vehicle must be known locally.
func (s *Store) AssignAgent(ctx context.Context, routeID, employeID string) (models.Tournee, error) {
	c := Change{Entity: EntityTournees, Action: ActionAssign, ID: routeID}
	s.begin()
	current, ok := s.findTournee(routeID)
	if !ok {
		return models.Tournee{}, s.fail(ctx, c, notFound("Tournee", routeID), "Failed to update tournee", nil)
	}
	if _, ok := s.findEmploye(employeID); !ok {
		return models.Tournee{}, s.fail(ctx, c, fmt.Errorf("%w: %q", ErrMissingEmployee, employeID), "Failed to update tournee", nil)
	}

	next := current
	next.EmployeIDs = append([]string{employeID}, removeWhere(current.EmployeIDs, func(id string) bool { return id == employeID })...)
	if err := checkRouteRefs(next, s.refs()); err != nil {
		return models.Tournee{}, s.fail(ctx, c, err, "Failed to update tournee", nil)
	}
	return s.putTournee(ctx, c, next, "Failed to update tournee")
}

//nolint:gocritic // Tournee is copied on purpose
func (s *Store) putTournee(ctx context.Context, c Change, t models.Tournee, fallback string) (models.Tournee, error) {
	if IsTempID(t.ID) {
		return models.Tournee{}, s.fail(ctx, c, fmt.Errorf("route %s is not saved yet", t.ID), fallback, nil)
	}
	updated, err := s.api.Tournees.Update(ctx, mapper.ParseID(t.ID), s.mapper.TourneeToDTO(t, s.refs(), false))
	if err != nil {
		return models.Tournee{}, s.fail(ctx, c, fmt.Errorf("update route %s: %w", t.ID, err), fallback, nil)
	}
	out := s.mapper.TourneeFromDTO(updated)
	out.TrajetOptimise = t.TrajetOptimise
	s.settle(c, func(st *State) {
		if i := indexOf(st.Tournees, func(x models.Tournee) bool { return x.ID == out.ID }); i >= 0 {
			st.Tournees = replaceAt(st.Tournees, i, out)
			return
		}
		st.Tournees = append(cloneTournees(st.Tournees), out)
	})
	return out, nil
}

// RemoveTournee deletes a route. The backend is called even when the id is
// not held locally, and its failure is reported.
func (s *Store) RemoveTournee(ctx context.Context, id string) error {
	c := Change{Entity: EntityTournees, Action: ActionRemove, ID: id}
	s.begin()
	if err := s.api.Tournees.Delete(ctx, mapper.ParseID(id)); err != nil {
		return s.fail(ctx, c, fmt.Errorf("delete route %s: %w", id, err), "Failed to delete tournee", nil)
	}
	s.settle(c, func(st *State) {
		st.Tournees = removeWhere(st.Tournees, func(t models.Tournee) bool { return t.ID == id })
	})
	return nil
}

func (s *Store) findTournee(id string) (models.Tournee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.st.Tournees, func(t models.Tournee) bool { return t.ID == id })
	if i < 0 {
		return models.Tournee{}, false
	}
	t := s.st.Tournees[i]
	t.EmployeIDs = append([]string{}, t.EmployeIDs...)
	t.PointsCollecteIDs = append([]string{}, t.PointsCollecteIDs...)
	return t, true
}

func transitionError(from, to models.TourneeStatut) error {
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}
