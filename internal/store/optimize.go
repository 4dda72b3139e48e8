// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"
	"fmt"

	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/metrics"
	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/planner"
)

// OptimizeRequest overrides the store's planner settings for one run.
// Zero fields keep the configured values.
type OptimizeRequest struct {
	Threshold   int `json:"threshold,omitempty"`
	BucketSize  int `json:"bucketSize,omitempty"`
	MaxVehicles int `json:"maxVehicles,omitempty"`
}

// OptimizeResult lists the routes that were created.
type OptimizeResult struct {
	Critical int              `json:"critical"`
	Created  []models.Tournee `json:"created"`
	Planned  int              `json:"planned"`
	Savings  planner.Savings  `json:"savings"`
}

// OptimizeRoutes plans routes over the current snapshot and creates them
// one by one through AddTournee. It stops at the first failed creation and
// returns what was created so far together with the error; earlier routes
// are not rolled back.
func (s *Store) OptimizeRoutes(ctx context.Context, req OptimizeRequest) (OptimizeResult, error) {
	params := s.params
	threshold := s.critical
	if req.Threshold > 0 {
		threshold = req.Threshold
	}
	if req.BucketSize > 0 {
		params.BucketSize = req.BucketSize
	}
	if req.MaxVehicles > 0 {
		params.MaxVehicles = req.MaxVehicles
	}
	params.Date = s.now()

	snap := s.Snapshot()
	candidates := planner.SelectCritical(snap.Points, snap.Signalements, threshold)
	plans := planner.Plan(candidates, snap.Vehicules, snap.Employes, params)

	result := OptimizeResult{
		Critical: len(candidates),
		Created:  []models.Tournee{},
		Planned:  len(plans),
		Savings:  planner.EstimateSavings(len(candidates), plans),
	}

	for i, draft := range plans {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("optimize routes: %w", err)
		}
		created, err := s.AddTournee(ctx, draft)
		if err != nil {
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("entity", EntityTournees).
				Str("action", ActionOptimize).
				Int("created", len(result.Created)).
				Int("planned", len(plans)).
				Msg("Route optimization stopped")
			return result, fmt.Errorf("optimize routes: route %d of %d: %w", i+1, len(plans), err)
		}
		metrics.RoutesPlanned.Inc()
		result.Created = append(result.Created, created)
	}

	logging.Ctx(ctx).Info().
		Int("critical", len(candidates)).
		Int("created", len(result.Created)).
		Msg("Routes optimized")
	if len(result.Created) > 0 {
		// pick up backend-side fields of the new routes
		if _, err := s.FetchTournees(ctx); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("entity", EntityTournees).Msg("Failed to refresh routes after optimization")
		}
	}
	s.notify(Change{Entity: EntityTournees, Action: ActionOptimize})
	return result, nil
}
