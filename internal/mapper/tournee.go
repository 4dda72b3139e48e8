// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package mapper

import (
	"github.com/tomtom215/urbanwaste/internal/models"
)

// Refs is the local state a route payload is rebuilt from.
type Refs struct {
	Vehicules []models.Vehicule
	Employes  []models.Employe
	Points    []models.Point
}

func (r Refs) vehicule(id string) (models.Vehicule, bool) {
	for i := range r.Vehicules {
		if FormatID(r.Vehicules[i].ID) == id {
			return r.Vehicules[i], true
		}
	}
	return models.Vehicule{}, false
}

func (r Refs) employe(id string) (models.Employe, bool) {
	for i := range r.Employes {
		if r.Employes[i].ID == id {
			return r.Employes[i], true
		}
	}
	return models.Employe{}, false
}

func (r Refs) point(id string) (models.Point, bool) {
	for i := range r.Points {
		if FormatID(r.Points[i].ID) == id {
			return r.Points[i], true
		}
	}
	return models.Point{}, false
}

// TourneeFromDTO maps either route shape the backend serves. Nested
// references win over flat id fields; an explicit employeIds list wins
// over both employee forms.
func (m *Mapper) TourneeFromDTO(d models.TourneeDTO) models.Tournee {
	t := models.Tournee{
		ID:         FormatID(d.ID),
		HeureDebut: d.HeureDebut,
		HeureFin:   d.HeureFin,
		Statut:     models.TourneeStatut(firstNonEmpty(d.Statut, d.Etat, string(models.TourneePlanifiee))),
	}

	t.Date = d.DatePlanifiee.DateString()
	if t.Date == "" {
		t.Date = d.Date.DateString()
	}

	switch {
	case d.Vehicle != nil:
		t.VehiculeID = FormatID(d.Vehicle.ID)
	case d.VehiculeID != nil:
		t.VehiculeID = FormatID(*d.VehiculeID)
	}

	switch {
	case len(d.EmployeIDs) > 0:
		t.EmployeIDs = make([]string, 0, len(d.EmployeIDs))
		for _, id := range d.EmployeIDs {
			t.EmployeIDs = append(t.EmployeIDs, FormatID(id))
		}
	case d.Employe != nil:
		t.EmployeIDs = []string{FormatID(d.Employe.ID)}
	case d.EmployeID != nil:
		t.EmployeIDs = []string{FormatID(*d.EmployeID)}
	default:
		t.EmployeIDs = []string{}
	}

	switch {
	case len(d.PointsCollecte) > 0:
		t.PointsCollecteIDs = make([]string, 0, len(d.PointsCollecte))
		for i := range d.PointsCollecte {
			t.PointsCollecteIDs = append(t.PointsCollecteIDs, FormatID(d.PointsCollecte[i].ID))
		}
	default:
		t.PointsCollecteIDs = make([]string, 0, len(d.PointsCollecteIDs))
		for _, id := range d.PointsCollecteIDs {
			t.PointsCollecteIDs = append(t.PointsCollecteIDs, FormatID(id))
		}
	}

	switch {
	case d.DistanceKm != nil:
		t.DistanceKm = round1(*d.DistanceKm)
	case d.DistanceTotale != nil:
		t.DistanceKm = round1(*d.DistanceTotale)
	}
	return t
}

func (m *Mapper) TourneesFromDTO(ds []models.TourneeDTO) []models.Tournee {
	out := make([]models.Tournee, 0, len(ds))
	for i := range ds {
		out = append(out, m.TourneeFromDTO(ds[i]))
	}
	return out
}

// TourneeToDTO rebuilds the full route payload from local references. The
// backend Tournee has a single employe, so only the first employee found
// locally is sent. Any reference that is not in refs is left out without an
// error. Temporary ids map to 0.
//
//nolint:gocritic // Tournee is copied on purpose
func (m *Mapper) TourneeToDTO(t models.Tournee, refs Refs, isCreate bool) models.TourneeDTO {
	d := models.TourneeDTO{
		Statut:         firstNonEmpty(string(t.Statut), string(models.TourneePlanifiee)),
		HeureDebut:     t.HeureDebut,
		HeureFin:       t.HeureFin,
		DistanceKm:     models.Float64(round1(t.DistanceKm)),
		PointsCollecte: []models.RefDTO{},
	}
	if !isCreate {
		d.ID = ParseID(t.ID)
	}
	if t.Date != "" {
		if parsed, err := models.ParseFlexTime(t.Date); err == nil {
			d.DatePlanifiee = models.NewFlexTime(parsed)
		}
	}

	if v, ok := refs.vehicule(t.VehiculeID); ok {
		d.Vehicle = &models.RefDTO{ID: v.ID, Immatriculation: v.Immatriculation}
	}
	for _, id := range t.EmployeIDs {
		if e, ok := refs.employe(id); ok {
			d.Employe = &models.RefDTO{ID: ParseID(e.ID), Nom: e.Nom, Prenom: e.Prenom}
			break
		}
	}
	for _, id := range t.PointsCollecteIDs {
		if p, ok := refs.point(id); ok {
			d.PointsCollecte = append(d.PointsCollecte, models.RefDTO{ID: p.ID, Localisation: p.Localisation})
		}
	}
	return d
}
