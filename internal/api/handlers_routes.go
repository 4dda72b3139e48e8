// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/store"
	"github.com/tomtom215/urbanwaste/internal/validation"
)

// ========================
// Routes
// ========================

func (h *Handler) ListTournees(w http.ResponseWriter, r *http.Request) {
	tournees, err := h.deps.Store.FetchTournees(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch tournees")
		return
	}
	NewResponseWriter(w, r).List(tournees, len(tournees))
}

// CreateTournee plans a route. Its vehicle and employee must already be
// loaded in the store.
func (h *Handler) CreateTournee(w http.ResponseWriter, r *http.Request) {
	var draft models.Tournee
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(w, r, err, "Failed to add tournee")
		return
	}
	t, err := h.deps.Store.AddTournee(r.Context(), draft)
	if err != nil {
		respondError(w, r, err, "Failed to add tournee")
		return
	}
	NewResponseWriter(w, r).Created(t)
}

func (h *Handler) UpdateTournee(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r)
	if err != nil {
		respondError(w, r, err, "Failed to update tournee")
		return
	}
	var patch models.TourneePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err, "Failed to update tournee")
		return
	}
	t, err := h.deps.Store.UpdateTournee(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err, "Failed to update tournee")
		return
	}
	NewResponseWriter(w, r).Success(t)
}

func (h *Handler) DeleteTournee(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r)
	if err != nil {
		respondError(w, r, err, "Failed to delete tournee")
		return
	}
	if err := h.deps.Store.RemoveTournee(r.Context(), id); err != nil {
		respondError(w, r, err, "Failed to delete tournee")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// SetTourneeStatut moves a route along its lifecycle. A backward move is a
// 409 Conflict.
func (h *Handler) SetTourneeStatut(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r)
	if err != nil {
		respondError(w, r, err, "Failed to update tournee")
		return
	}
	var req TourneeStatutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, "Failed to update tournee")
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondError(w, r, verr, "Failed to update tournee")
		return
	}
	t, err := h.deps.Store.UpdateTourneeStatut(r.Context(), id, req.Statut)
	if err != nil {
		respondError(w, r, err, "Failed to update tournee")
		return
	}
	NewResponseWriter(w, r).Success(t)
}

func (h *Handler) AssignAgent(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r)
	if err != nil {
		respondError(w, r, err, "Failed to assign agent")
		return
	}
	var req AssignAgentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, "Failed to assign agent")
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondError(w, r, verr, "Failed to assign agent")
		return
	}
	t, err := h.deps.Store.AssignAgent(r.Context(), id, req.EmployeID)
	if err != nil {
		respondError(w, r, err, "Failed to assign agent")
		return
	}
	NewResponseWriter(w, r).Success(t)
}

// OptimizeTournees runs the planner over the loaded points and creates the
// resulting routes. An empty body keeps the configured settings. When a
// creation fails the routes created so far are reported in the error
// details.
func (h *Handler) OptimizeTournees(w http.ResponseWriter, r *http.Request) {
	var req store.OptimizeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			var verr *validation.RequestValidationError
			// a chunked empty body decodes to EOF
			if !errors.As(err, &verr) || verr.Errors()[0].Tag() != "required" {
				respondError(w, r, err, "Failed to optimize routes")
				return
			}
		}
	}

	result, err := h.deps.Store.OptimizeRoutes(r.Context(), req)
	if err != nil {
		if len(result.Created) > 0 {
			status, code := classify(err)
			NewResponseWriter(w, r).ErrorWithDetails(status, code, "Route optimization stopped", result)
			return
		}
		respondError(w, r, err, "Failed to optimize routes")
		return
	}
	NewResponseWriter(w, r).Created(result)
}

// ========================
// Reports
// ========================

// ListSignalements fetches reports. ?employeId= lists one employee's
// reports without touching local state.
func (h *Handler) ListSignalements(w http.ResponseWriter, r *http.Request) {
	var (
		reports []models.Signalement
		err     error
	)
	if employeID := r.URL.Query().Get("employeId"); employeID != "" {
		reports, err = h.deps.Store.SignalementsByEmploye(r.Context(), employeID)
	} else {
		reports, err = h.deps.Store.FetchSignalements(r.Context())
	}
	if err != nil {
		respondError(w, r, err, "Failed to fetch signalements")
		return
	}
	NewResponseWriter(w, r).List(reports, len(reports))
}

func (h *Handler) CreateSignalement(w http.ResponseWriter, r *http.Request) {
	var draft models.Signalement
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(w, r, err, "Failed to add signalement")
		return
	}
	s, err := h.deps.Store.AddSignalement(r.Context(), draft)
	if err != nil {
		respondError(w, r, err, "Failed to add signalement")
		return
	}
	NewResponseWriter(w, r).Created(s)
}

func (h *Handler) SetSignalementStatut(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r)
	if err != nil {
		respondError(w, r, err, "Failed to update signalement")
		return
	}
	var req SignalementStatutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, "Failed to update signalement")
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondError(w, r, verr, "Failed to update signalement")
		return
	}
	s, err := h.deps.Store.UpdateSignalementStatut(r.Context(), id, req.Statut)
	if err != nil {
		respondError(w, r, err, "Failed to update signalement")
		return
	}
	NewResponseWriter(w, r).Success(s)
}
