// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package planner implements the greedy route bucketing used by the
// "optimize routes" action.
//
// It is a sort-and-slice heuristic, not a solver: critical points are
// ordered by fill level and cut into fixed-size buckets, one per available
// vehicle. Distances are synthetic estimates derived from the bucket size.
//
//	candidates := planner.SelectCritical(points, reports, 92)
//	routes := planner.Plan(candidates, vehicles, employees, planner.DefaultParams())
//	savings := planner.EstimateSavings(len(candidates), routes)
package planner

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/models"
)

// Savings heuristic constants: an unplanned critical point costs 9.5 km,
// each saved kilometre is worth 2.8 minutes and 2.1 litres.
const (
	kmPerUnplannedPoint = 9.5
	minutesPerKm        = 2.8
	litresPerKm         = 2.1
)

// fallbackStartTime is used for buckets beyond the configured start times.
const fallbackStartTime = "08:00"

// Params tunes Plan.
type Params struct {
	BucketSize  int
	MaxVehicles int
	MinBucket   int
	KmPerPoint  float64
	BaseKm      float64
	StartTimes  []string

	// Date is the planned day. Zero means today.
	Date time.Time
}

// DefaultParams returns the dashboard defaults: 9 points per route, at
// most 4 vehicles, 2 points minimum, 4.1 km per point plus 9 km.
func DefaultParams() Params {
	return Params{
		BucketSize:  9,
		MaxVehicles: 4,
		MinBucket:   2,
		KmPerPoint:  4.1,
		BaseKm:      9,
		StartTimes:  []string{"06:15", "06:45", "07:15", "13:30"},
	}
}

// ParamsFromConfig builds Params from configuration, keeping defaults for
// zero values.
func ParamsFromConfig(cfg config.PlannerConfig) Params {
	p := DefaultParams()
	if cfg.BucketSize > 0 {
		p.BucketSize = cfg.BucketSize
	}
	if cfg.MaxVehicles > 0 {
		p.MaxVehicles = cfg.MaxVehicles
	}
	if cfg.MinBucket > 0 {
		p.MinBucket = cfg.MinBucket
	}
	if cfg.KmPerPoint > 0 {
		p.KmPerPoint = cfg.KmPerPoint
	}
	if cfg.BaseKm > 0 {
		p.BaseKm = cfg.BaseKm
	}
	if len(cfg.StartTimes) > 0 {
		p.StartTimes = append([]string(nil), cfg.StartTimes...)
	}
	return p
}

// SelectCritical returns the points whose fill level is at least threshold
// or that are linked to an URGENT report, sorted by fill level descending.
// Ties keep their input order.
func SelectCritical(points []models.Point, reports []models.Signalement, threshold int) []models.Point {
	urgent := make(map[string]struct{})
	for _, r := range reports {
		if r.Statut == models.SignalementUrgent && r.PointCollecteID != "" {
			urgent[r.PointCollecteID] = struct{}{}
		}
	}

	out := make([]models.Point, 0, len(points))
	for _, p := range points {
		_, isUrgent := urgent[strconv.FormatInt(p.ID, 10)]
		if p.NiveauRemplissage >= threshold || isUrgent {
			out = append(out, p)
		}
	}
	sortByFill(out)
	return out
}

func sortByFill(points []models.Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].NiveauRemplissage > points[j].NiveauRemplissage
	})
}

// Plan buckets candidates into new PLANIFIEE routes.
//
// Bucket i gets available vehicle i, driver i mod len(drivers) and the
// collectors [2i, 2i+2). Planning stops at MaxVehicles, when vehicles run
// out, or when fewer than MinBucket points remain. Returned routes have no
// ID; employee lists may be empty when nobody is available.
func Plan(candidates []models.Point, vehicles []models.Vehicule, employees []models.Employe, p Params) []models.Tournee {
	if p.BucketSize <= 0 {
		p.BucketSize = DefaultParams().BucketSize
	}
	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}

	var available []models.Vehicule
	for _, v := range vehicles {
		if v.Statut == models.VehiculeDisponible {
			available = append(available, v)
		}
	}
	var drivers, collectors []models.Employe
	for _, e := range employees {
		if !e.Disponible {
			continue
		}
		switch e.Role {
		case models.RoleChauffeur:
			drivers = append(drivers, e)
		case models.RoleEboueur:
			collectors = append(collectors, e)
		}
	}

	remaining := append([]models.Point(nil), candidates...)
	sortByFill(remaining)

	limit := p.MaxVehicles
	if limit <= 0 || limit > len(available) {
		limit = len(available)
	}

	var routes []models.Tournee
	for i := 0; i < limit; i++ {
		if len(remaining) < p.MinBucket || len(remaining) == 0 {
			break
		}
		n := p.BucketSize
		if n > len(remaining) {
			n = len(remaining)
		}
		bucket := remaining[:n]
		remaining = remaining[n:]

		pointIDs := make([]string, len(bucket))
		for j, pt := range bucket {
			pointIDs[j] = strconv.FormatInt(pt.ID, 10)
		}

		routes = append(routes, models.Tournee{
			Date:              date.Format("2006-01-02"),
			HeureDebut:        startTime(p.StartTimes, i),
			VehiculeID:        strconv.FormatInt(available[i].ID, 10),
			EmployeIDs:        crew(drivers, collectors, i),
			PointsCollecteIDs: pointIDs,
			Statut:            models.TourneePlanifiee,
			DistanceKm:        round1(float64(len(bucket))*p.KmPerPoint + p.BaseKm),
			TrajetOptimise:    true,
		})
	}
	return routes
}

func crew(drivers, collectors []models.Employe, i int) []string {
	ids := []string{}
	if len(drivers) > 0 {
		if id := drivers[i%len(drivers)].ID; id != "" {
			ids = append(ids, id)
		}
	}
	for j := 2 * i; j < 2*i+2 && j < len(collectors); j++ {
		if collectors[j].ID != "" {
			ids = append(ids, collectors[j].ID)
		}
	}
	return ids
}

func startTime(times []string, i int) string {
	if i < len(times) && times[i] != "" {
		return times[i]
	}
	return fallbackStartTime
}

// Savings is the estimated gain of planned routes over serving each
// critical point individually.
type Savings struct {
	BeforeKm float64 `json:"beforeKm"`
	AfterKm  float64 `json:"afterKm"`
	Km       int     `json:"km"`
	Minutes  int     `json:"minutes"`
	Fuel     int     `json:"fuel"`
}

// EstimateSavings compares criticalCount × 9.5 km against the planned
// distance. Km, Minutes and Fuel are rounded and may be negative.
func EstimateSavings(criticalCount int, planned []models.Tournee) Savings {
	before := float64(criticalCount) * kmPerUnplannedPoint
	var after float64
	for _, t := range planned {
		after += t.DistanceKm
	}
	km := math.Round(before - after)
	return Savings{
		BeforeKm: round1(before),
		AfterKm:  round1(after),
		Km:       int(km),
		Minutes:  int(math.Round(km * minutesPerKm)),
		Fuel:     int(math.Round(km * litresPerKm)),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
