// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"time"

	"github.com/tomtom215/urbanwaste/internal/models"
)

// Request bodies that are not plain model drafts or patches.

type LoginResponse struct {
	Token     string             `json:"token,omitempty"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty"`
	User      models.SessionUser `json:"user"`
}

type FillLevelRequest struct {
	Niveau *int `json:"niveau" validate:"required,min=0,max=100" label:"Niveau de remplissage"`
}

type VehiculeStatutRequest struct {
	Statut models.VehiculeStatut `json:"statut" validate:"required"`
}

type TourneeStatutRequest struct {
	Statut models.TourneeStatut `json:"statut" validate:"required"`
}

type SignalementStatutRequest struct {
	Statut models.SignalementStatut `json:"statut" validate:"required"`
}

type AssignAgentRequest struct {
	EmployeID string `json:"employeId" validate:"required" label:"Employé"`
}

// ImportResponse is the answer to an XML upload.
type ImportResponse struct {
	Entity   string `json:"entity"`
	Filename string `json:"filename"`
	Message  string `json:"message,omitempty"`
	Imported int    `json:"imported"`
	Total    int    `json:"total"`
}
