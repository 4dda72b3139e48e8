// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package models

// Wire types as exchanged with the backend. Inbound fields that the backend
// has been seen to name in more than one way appear once per name; the
// mapper picks whichever is set.

type WasteTypeDTO struct {
	ID  int64  `json:"id"`
	Nom string `json:"nom,omitempty"`
}

type PointDTO struct {
	ID           int64  `json:"id"`
	Localisation string `json:"localisation,omitempty"`
	Adresse      string `json:"adresse,omitempty"`
	Address      string `json:"address,omitempty"`

	// NiveauRemplissage is a float on the backend.
	NiveauRemplissage float64 `json:"niveauRemplissage"`

	EtatConteneur string `json:"etatConteneur,omitempty"`
	Etat          string `json:"etat,omitempty"`

	DateDerniereCollecte *FlexTime     `json:"dateDerniereCollecte,omitempty"`
	TypeDechet           *WasteTypeDTO `json:"typeDechet,omitempty"`
	Latitude             *float64      `json:"latitude,omitempty"`
	Longitude            *float64      `json:"longitude,omitempty"`
	Capacite             *int          `json:"capacite,omitempty"`
	Modele               string        `json:"modele,omitempty"`
}

// UtilisateurDTO is the backend Utilisateur/Employee shape.
type UtilisateurDTO struct {
	ID        int64  `json:"id"`
	Mail      string `json:"mail,omitempty"`
	Email     string `json:"email,omitempty"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Telephone int64  `json:"telephone"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role,omitempty"`

	// Disponible is only present on employees and never sent.
	Disponible *bool `json:"disponible,omitempty"`
}

type VehiculeDTO struct {
	ID              int64           `json:"id"`
	TypeVehicule    string          `json:"typeVehicule,omitempty"`
	Type            string          `json:"type,omitempty"`
	Capacite        float64         `json:"capacite"`
	Disponibilite   *bool           `json:"disponibilite,omitempty"`
	Conducteur      *UtilisateurDTO `json:"conducteur"`
	Immatriculation string          `json:"immatriculation"`
	Statut          string          `json:"statut,omitempty"`
	Etat            string          `json:"etat,omitempty"`
}

// RefDTO is a nested {id,...} reference inside a route payload.
type RefDTO struct {
	ID              int64  `json:"id"`
	Nom             string `json:"nom,omitempty"`
	Prenom          string `json:"prenom,omitempty"`
	Immatriculation string `json:"immatriculation,omitempty"`
	Localisation    string `json:"localisation,omitempty"`
}

// TourneeDTO covers both route shapes the backend has served: the Tournee
// shape (datePlanifiee, employe, vehicle, pointsCollecte, distanceKm) and
// the flat Route shape (date, vehiculeId, employeId, pointsCollecteIds,
// distanceTotale, etat).
type TourneeDTO struct {
	ID int64 `json:"id"`

	DatePlanifiee *FlexTime `json:"datePlanifiee,omitempty"`
	Date          *FlexTime `json:"date,omitempty"`

	Statut string `json:"statut,omitempty"`
	Etat   string `json:"etat,omitempty"`

	Employe    *RefDTO `json:"employe,omitempty"`
	EmployeID  *int64  `json:"employeId,omitempty"`
	EmployeIDs []int64 `json:"employeIds,omitempty"`

	Vehicle    *RefDTO `json:"vehicle,omitempty"`
	VehiculeID *int64  `json:"vehiculeId,omitempty"`

	PointsCollecte    []RefDTO `json:"pointsCollecte,omitempty"`
	PointsCollecteIDs []int64  `json:"pointsCollecteIds,omitempty"`

	HeureDebut string `json:"heureDebut,omitempty"`
	HeureFin   string `json:"heureFin,omitempty"`

	DistanceKm     *float64 `json:"distanceKm,omitempty"`
	DistanceTotale *float64 `json:"distanceTotale,omitempty"`
}

type SignalementDTO struct {
	ID              int64     `json:"id,omitempty"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	PointCollecteID *int64    `json:"pointCollecteId,omitempty"`
	EmployeID       *int64    `json:"employeId,omitempty"`
	CitoyenID       *int64    `json:"citoyenId,omitempty"`
	DateSignalement *FlexTime `json:"dateSignalement,omitempty"`
	Statut          string    `json:"statut,omitempty"`
	PhotoURL        string    `json:"photoUrl,omitempty"`
}

type NotificationDTO struct {
	ID           int64     `json:"id"`
	Titre        string    `json:"titre"`
	Message      string    `json:"message"`
	RoleCible    string    `json:"roleCible"`
	DateCreation *FlexTime `json:"dateCreation,omitempty"`
	Lue          bool      `json:"lue"`
	VehiculeID   *int64    `json:"vehiculeId,omitempty"`
	Type         string    `json:"type,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Mail     string `json:"mail" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Mail      string `json:"mail" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Nom       string `json:"nom" validate:"required"`
	Prenom    string `json:"prenom" validate:"required"`
	Telephone int64  `json:"telephone"`
	Role      string `json:"role" validate:"required"`
}

// LoginResponse is what /auth/login returns: {id, name, role}. Older
// backend builds returned nom/prenom/mail instead of name, and some add a
// token.
type LoginResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name,omitempty"`
	Nom    string `json:"nom,omitempty"`
	Prenom string `json:"prenom,omitempty"`
	Mail   string `json:"mail,omitempty"`
	Role   string `json:"role"`
	Token  string `json:"token,omitempty"`
}
