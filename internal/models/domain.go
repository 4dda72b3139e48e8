// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package models

import "time"

// WasteType is the backend TypeDechet reference.
type WasteType struct {
	ID  int64  `json:"id"`
	Nom string `json:"nom"`
}

// Point is a collection point (point de collecte).
type Point struct {
	ID                int64      `json:"id"`
	Localisation      string     `json:"localisation"`
	TypeDechet        *WasteType `json:"typeDechet,omitempty"`
	NiveauRemplissage int        `json:"niveauRemplissage" validate:"min=0,max=100"`
	EtatConteneur     PointEtat  `json:"etatConteneur"`
	Capacite          *int       `json:"capacite,omitempty"`
	Modele            string     `json:"modele,omitempty"`
	DerniereCollecte  string     `json:"derniereCollecte,omitempty"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
}

// EmployeRef is a lightweight reference to an employee (vehicle driver).
type EmployeRef struct {
	ID     string `json:"id"`
	Nom    string `json:"nom,omitempty"`
	Prenom string `json:"prenom,omitempty"`
}

// Vehicule is a collection vehicle. Statut and Etat always hold the same value.
type Vehicule struct {
	ID              int64          `json:"id"`
	Immatriculation string         `json:"immatriculation"`
	Type            string         `json:"type" validate:"required" label:"Type de véhicule"`
	Capacite        float64        `json:"capacite" validate:"gt=0" label:"Capacité"`
	Disponibilite   bool           `json:"disponibilite"`
	Statut          VehiculeStatut `json:"statut"`
	Etat            VehiculeStatut `json:"etat"`
	Conducteur      *EmployeRef    `json:"conducteur,omitempty"`
}

// Employe is a field employee. IDs are strings here and numbers on the wire.
// Adresse and DateEmbauche are not stored by the backend and are kept
// from local state across round trips.
type Employe struct {
	ID           string `json:"id"`
	Nom          string `json:"nom" validate:"required"`
	Prenom       string `json:"prenom" validate:"required"`
	Role         Role   `json:"role"`
	Telephone    string `json:"telephone"`
	Email        string `json:"email"`
	Adresse      string `json:"adresse,omitempty"`
	DateEmbauche string `json:"dateEmbauche,omitempty"`
	Disponible   bool   `json:"disponible"`
}

// FullName returns "Prenom Nom".
func (e Employe) FullName() string {
	switch {
	case e.Prenom == "":
		return e.Nom
	case e.Nom == "":
		return e.Prenom
	}
	return e.Prenom + " " + e.Nom
}

// Tournee is a collection route.
type Tournee struct {
	ID                string        `json:"id"`
	Date              string        `json:"date"`
	HeureDebut        string        `json:"heureDebut"`
	HeureFin          string        `json:"heureFin"`
	VehiculeID        string        `json:"vehiculeId"`
	EmployeIDs        []string      `json:"employeIds"`
	PointsCollecteIDs []string      `json:"pointsCollecteIds"`
	Statut            TourneeStatut `json:"statut"`
	DistanceKm        float64       `json:"distanceKm"`
	TrajetOptimise    bool          `json:"trajetOptimise,omitempty"`
}

// Signalement is an incident report from a citizen or an employee.
type Signalement struct {
	ID              string            `json:"id"`
	Date            string            `json:"date"`
	Type            SignalementType   `json:"type"`
	Message         string            `json:"message"`
	Statut          SignalementStatut `json:"statut"`
	CitoyenID       string            `json:"citoyenId,omitempty"`
	EmployeID       string            `json:"employeId,omitempty"`
	PointCollecteID string            `json:"pointCollecteId,omitempty"`
	PhotoURL        string            `json:"photoUrl,omitempty"`
}

// User is an account managed through the per-role endpoints
// (/admins, /superviseurs, /techniciens) or listed by /auth/users.
type User struct {
	ID        int64    `json:"id"`
	Mail      string   `json:"mail" validate:"required,email"`
	Nom       string   `json:"nom" validate:"required"`
	Prenom    string   `json:"prenom" validate:"required"`
	Telephone int64    `json:"telephone"`
	Role      UserRole `json:"role"`
	Password  string   `json:"password,omitempty"`
}

// Notification is generated and held client-side only.
type Notification struct {
	ID        string    `json:"id"`
	Titre     string    `json:"titre"`
	Message   string    `json:"message"`
	RoleCible string    `json:"roleCible"`
	Priorite  Priority  `json:"priorite"`
	CreatedAt time.Time `json:"createdAt"`
}

// TechNotification is persisted by the backend for technicians.
type TechNotification struct {
	ID           int64     `json:"id"`
	Titre        string    `json:"titre"`
	Message      string    `json:"message"`
	RoleCible    string    `json:"roleCible"`
	DateCreation time.Time `json:"dateCreation"`
	Lue          bool      `json:"lue"`
	VehiculeID   int64     `json:"vehiculeId,omitempty"`
	Type         string    `json:"type,omitempty"`
}

// SessionUser is the identity shown by the dashboard after login.
type SessionUser struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Mail string   `json:"mail"`
	Role UserRole `json:"role"`
}

// Session is what survives a restart.
type Session struct {
	Token     string      `json:"token"`
	User      SessionUser `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}

// PointStats is the /points/stats summary.
type PointStats struct {
	Total            int     `json:"total"`
	Actifs           int     `json:"actifs"`
	Maintenance      int     `json:"maintenance"`
	HorsService      int     `json:"horsService"`
	Critiques        int     `json:"critiques"`
	RemplissageMoyen float64 `json:"remplissageMoyen"`
}
