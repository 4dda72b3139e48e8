// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"
	"fmt"

	"github.com/tomtom215/urbanwaste/internal/mapper"
	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/validation"
)

// FetchPoints replaces the local points with the backend list. The previous
// list stays visible when the call fails.
func (s *Store) FetchPoints(ctx context.Context) ([]models.Point, error) {
	c := Change{Entity: EntityPoints, Action: ActionFetch}
	s.begin()
	dtos, err := s.api.Points.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("fetch points: %w", err), "Failed to fetch points", nil)
	}
	points := s.mapper.PointsFromDTO(dtos)
	s.settle(c, func(st *State) { st.Points = points })
	return clone(points), nil
}

// AddPoint creates a point and inserts the server record.
//
//nolint:gocritic // drafts are passed by value
func (s *Store) AddPoint(ctx context.Context, draft models.Point) (models.Point, error) {
	c := Change{Entity: EntityPoints, Action: ActionAdd}
	s.begin()
	if verr := validation.ValidateStruct(draft); verr != nil {
		return models.Point{}, s.fail(ctx, c, verr, "Failed to create point", nil)
	}
	dto := s.mapper.PointToDTO(draft)
	dto.ID = 0
	created, err := s.api.Points.Create(ctx, dto)
	if err != nil {
		return models.Point{}, s.fail(ctx, c, fmt.Errorf("create point: %w", err), "Failed to create point", nil)
	}
	p := s.mapper.PointFromDTO(created)
	c.ID = mapper.FormatID(p.ID)
	s.settle(c, func(st *State) { st.Points = append(clone(st.Points), p) })
	return p, nil
}

// UpdatePoint merges patch into the local point, sends the full record and
// stores the server response.
func (s *Store) UpdatePoint(ctx context.Context, id int64, patch models.PointPatch) (models.Point, error) {
	c := Change{Entity: EntityPoints, Action: ActionUpdate, ID: mapper.FormatID(id)}
	s.begin()

	current, ok := s.findPoint(id)
	if !ok {
		return models.Point{}, s.fail(ctx, c, notFound("Point", c.ID), "Failed to update point", nil)
	}
	merged := patch.Apply(current)
	if verr := validation.ValidateStruct(merged); verr != nil {
		return models.Point{}, s.fail(ctx, c, verr, "Failed to update point", nil)
	}

	updated, err := s.api.Points.Update(ctx, id, s.mapper.PointToDTO(merged))
	if err != nil {
		return models.Point{}, s.fail(ctx, c, fmt.Errorf("update point %d: %w", id, err), "Failed to update point", nil)
	}
	p := s.mapper.PointFromDTO(updated)
	s.settle(c, func(st *State) { st.Points = upsertPoint(st.Points, p) })
	return p, nil
}

// EmptyPoint records a collection: the fill level drops to 0.
func (s *Store) EmptyPoint(ctx context.Context, id int64) (models.Point, error) {
	return s.UpdatePoint(ctx, id, models.PointPatch{NiveauRemplissage: models.Int(0)})
}

// SetFillLevel changes only the fill level through the dedicated endpoint.
func (s *Store) SetFillLevel(ctx context.Context, id int64, level int) (models.Point, error) {
	c := Change{Entity: EntityPoints, Action: ActionUpdate, ID: mapper.FormatID(id)}
	s.begin()
	if level < 0 || level > 100 {
		verr := validation.Fail("niveauRemplissage", "range", "niveauRemplissage must be between 0 and 100")
		return models.Point{}, s.fail(ctx, c, verr, "Failed to update point", nil)
	}
	updated, err := s.api.Points.UpdateFillLevel(ctx, id, float64(level))
	if err != nil {
		return models.Point{}, s.fail(ctx, c, fmt.Errorf("update fill level of point %d: %w", id, err), "Failed to update point", nil)
	}
	p := s.mapper.PointFromDTO(updated)
	s.settle(c, func(st *State) { st.Points = upsertPoint(st.Points, p) })
	return p, nil
}

// RemovePoint deletes a point. Removing an id that is not held locally
// still calls the backend.
func (s *Store) RemovePoint(ctx context.Context, id int64) error {
	c := Change{Entity: EntityPoints, Action: ActionRemove, ID: mapper.FormatID(id)}
	s.begin()
	if err := s.api.Points.Delete(ctx, id); err != nil {
		return s.fail(ctx, c, fmt.Errorf("delete point %d: %w", id, err), "Failed to delete point", nil)
	}
	s.settle(c, func(st *State) {
		st.Points = removeWhere(st.Points, func(p models.Point) bool { return p.ID == id })
	})
	return nil
}

// CriticalPoints asks the backend for points above threshold. Local state
// is not changed.
func (s *Store) CriticalPoints(ctx context.Context, threshold int) ([]models.Point, error) {
	c := Change{Entity: EntityPoints, Action: ActionQuery}
	s.begin()
	dtos, err := s.api.Points.Critical(ctx, float64(threshold))
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("critical points: %w", err), "Failed to fetch points", nil)
	}
	s.settle(c, nil)
	return s.mapper.PointsFromDTO(dtos), nil
}

// PointStats returns the backend summary.
func (s *Store) PointStats(ctx context.Context) (models.PointStats, error) {
	c := Change{Entity: EntityPoints, Action: ActionQuery}
	s.begin()
	stats, err := s.api.Points.Stats(ctx)
	if err != nil {
		return models.PointStats{}, s.fail(ctx, c, fmt.Errorf("point stats: %w", err), "Failed to fetch points", nil)
	}
	s.settle(c, nil)
	return stats, nil
}

func (s *Store) findPoint(id int64) (models.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.st.Points, func(p models.Point) bool { return p.ID == id })
	if i < 0 {
		return models.Point{}, false
	}
	return s.st.Points[i], true
}

// upsertPoint replaces the point with the same id, or appends it when the
// point was removed while the request was in flight.
//
//nolint:gocritic // Point is copied on purpose
func upsertPoint(points []models.Point, p models.Point) []models.Point {
	if i := indexOf(points, func(x models.Point) bool { return x.ID == p.ID }); i >= 0 {
		return replaceAt(points, i, p)
	}
	return append(clone(points), p)
}
