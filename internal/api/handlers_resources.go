// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/validation"
)

// ========================
// Points
// ========================

// ListPoints fetches the collection points. With ?critical=N only points
// at or above N percent are returned, without touching local state.
func (h *Handler) ListPoints(w http.ResponseWriter, r *http.Request) {
	threshold, filtered, err := queryInt(r, "critical")
	if err != nil {
		respondError(w, r, err, "Failed to fetch points")
		return
	}

	var points []models.Point
	if filtered {
		points, err = h.deps.Store.CriticalPoints(r.Context(), threshold)
	} else {
		points, err = h.deps.Store.FetchPoints(r.Context())
	}
	if err != nil {
		respondError(w, r, err, "Failed to fetch points")
		return
	}
	NewResponseWriter(w, r).List(points, len(points))
}

func (h *Handler) CreatePoint(w http.ResponseWriter, r *http.Request) {
	var draft models.Point
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(w, r, err, "Failed to add point")
		return
	}
	p, err := h.deps.Store.AddPoint(r.Context(), draft)
	if err != nil {
		respondError(w, r, err, "Failed to add point")
		return
	}
	NewResponseWriter(w, r).Created(p)
}

func (h *Handler) UpdatePoint(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to update point")
		return
	}
	var patch models.PointPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err, "Failed to update point")
		return
	}
	p, err := h.deps.Store.UpdatePoint(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err, "Failed to update point")
		return
	}
	NewResponseWriter(w, r).Success(p)
}

func (h *Handler) DeletePoint(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to delete point")
		return
	}
	if err := h.deps.Store.RemovePoint(r.Context(), id); err != nil {
		respondError(w, r, err, "Failed to delete point")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// EmptyPoint records a collection: the fill level drops to zero.
func (h *Handler) EmptyPoint(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to empty point")
		return
	}
	p, err := h.deps.Store.EmptyPoint(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Failed to empty point")
		return
	}
	NewResponseWriter(w, r).Success(p)
}

func (h *Handler) SetFillLevel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to update fill level")
		return
	}
	var req FillLevelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, "Failed to update fill level")
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondError(w, r, verr, "Failed to update fill level")
		return
	}
	p, err := h.deps.Store.SetFillLevel(r.Context(), id, *req.Niveau)
	if err != nil {
		respondError(w, r, err, "Failed to update fill level")
		return
	}
	NewResponseWriter(w, r).Success(p)
}

// PointStats returns the backend's summary of the collection network.
func (h *Handler) PointStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Store.PointStats(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch point stats")
		return
	}
	NewResponseWriter(w, r).Success(stats)
}

// ========================
// Vehicles
// ========================

// ListVehicules fetches the fleet. ?statut= filters through the backend
// without touching local state.
func (h *Handler) ListVehicules(w http.ResponseWriter, r *http.Request) {
	var (
		vehicules []models.Vehicule
		err       error
	)
	if statut := r.URL.Query().Get("statut"); statut != "" {
		s := models.VehiculeStatut(statut)
		if !s.Valid() {
			respondError(w, r, validation.Fail("statut", "oneof", fmt.Sprintf("unknown vehicle status %q", statut)), "Failed to fetch vehicules")
			return
		}
		vehicules, err = h.deps.Store.VehiculesByStatus(r.Context(), s)
	} else {
		vehicules, err = h.deps.Store.FetchVehicules(r.Context())
	}
	if err != nil {
		respondError(w, r, err, "Failed to fetch vehicules")
		return
	}
	NewResponseWriter(w, r).List(vehicules, len(vehicules))
}

func (h *Handler) CreateVehicule(w http.ResponseWriter, r *http.Request) {
	var draft models.Vehicule
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(w, r, err, "Failed to add vehicule")
		return
	}
	v, err := h.deps.Store.AddVehicule(r.Context(), draft)
	if err != nil {
		respondError(w, r, err, "Failed to add vehicule")
		return
	}
	NewResponseWriter(w, r).Created(v)
}

func (h *Handler) UpdateVehicule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to update vehicule")
		return
	}
	var patch models.VehiculePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err, "Failed to update vehicule")
		return
	}
	v, err := h.deps.Store.UpdateVehicule(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err, "Failed to update vehicule")
		return
	}
	NewResponseWriter(w, r).Success(v)
}

func (h *Handler) DeleteVehicule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to delete vehicule")
		return
	}
	if err := h.deps.Store.RemoveVehicule(r.Context(), id); err != nil {
		respondError(w, r, err, "Failed to delete vehicule")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// SetVehiculeStatut is the technician status update. EN_PANNE makes the
// backend raise a technician notification.
func (h *Handler) SetVehiculeStatut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err, "Failed to update vehicule")
		return
	}
	var req VehiculeStatutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, "Failed to update vehicule")
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondError(w, r, verr, "Failed to update vehicule")
		return
	}
	v, err := h.deps.Store.SetVehiculeStatus(r.Context(), id, req.Statut)
	if err != nil {
		respondError(w, r, err, "Failed to update vehicule")
		return
	}
	NewResponseWriter(w, r).Success(v)
}

// ========================
// Employees
// ========================

// ListEmployes fetches the employees. ?nom= searches the backend by name
// without touching local state.
func (h *Handler) ListEmployes(w http.ResponseWriter, r *http.Request) {
	var (
		employes []models.Employe
		err      error
	)
	if name := r.URL.Query().Get("nom"); name != "" {
		employes, err = h.deps.Store.SearchEmployes(r.Context(), name)
	} else {
		employes, err = h.deps.Store.FetchEmployes(r.Context())
	}
	if err != nil {
		respondError(w, r, err, "Failed to fetch employes")
		return
	}
	NewResponseWriter(w, r).List(employes, len(employes))
}

func (h *Handler) CreateEmploye(w http.ResponseWriter, r *http.Request) {
	var draft models.Employe
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(w, r, err, "Failed to add employe")
		return
	}
	e, err := h.deps.Store.AddEmploye(r.Context(), draft)
	if err != nil {
		respondError(w, r, err, "Failed to add employe")
		return
	}
	NewResponseWriter(w, r).Created(e)
}

func (h *Handler) UpdateEmploye(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r)
	if err != nil {
		respondError(w, r, err, "Failed to update employe")
		return
	}
	var patch models.EmployePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err, "Failed to update employe")
		return
	}
	e, err := h.deps.Store.UpdateEmploye(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err, "Failed to update employe")
		return
	}
	NewResponseWriter(w, r).Success(e)
}

func (h *Handler) DeleteEmploye(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r)
	if err != nil {
		respondError(w, r, err, "Failed to delete employe")
		return
	}
	if err := h.deps.Store.RemoveEmploye(r.Context(), id); err != nil {
		respondError(w, r, err, "Failed to delete employe")
		return
	}
	NewResponseWriter(w, r).NoContent()
}
