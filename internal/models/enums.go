// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package models

import "strings"

// PointEtat is the condition of a container.
type PointEtat string

const (
	PointActif       PointEtat = "ACTIF"
	PointMaintenance PointEtat = "MAINTENANCE"
	PointHorsService PointEtat = "HORS_SERVICE"
)

// Valid reports whether e is a known container state.
func (e PointEtat) Valid() bool {
	switch e {
	case PointActif, PointMaintenance, PointHorsService:
		return true
	}
	return false
}

// Waste type names used by the XML codec and the backend TypeDechet.nom.
const (
	DechetPlastique = "PLASTIQUE"
	DechetVerre     = "VERRE"
	DechetPapier    = "PAPIER"
	DechetOrganique = "ORGANIQUE"
	DechetMixte     = "MIXTE"
)

// VehiculeStatut covers both the statut and etat vehicle fields.
type VehiculeStatut string

const (
	VehiculeDisponible  VehiculeStatut = "DISPONIBLE"
	VehiculeEnMission   VehiculeStatut = "EN_MISSION"
	VehiculeMaintenance VehiculeStatut = "MAINTENANCE"
	VehiculeEnCharge    VehiculeStatut = "EN_CHARGE"
	VehiculeEnPanne     VehiculeStatut = "EN_PANNE"
)

func (s VehiculeStatut) Valid() bool {
	switch s {
	case VehiculeDisponible, VehiculeEnMission, VehiculeMaintenance, VehiculeEnCharge, VehiculeEnPanne:
		return true
	}
	return false
}

// Role is a field employee role.
type Role string

const (
	RoleChauffeur   Role = "CHAUFFEUR"
	RoleEboueur     Role = "EBOUEUR"
	RoleSuperviseur Role = "SUPERVISEUR"
)

// UserRole is an account role as returned by /auth/login.
type UserRole string

const (
	UserAdmin       UserRole = "ADMIN"
	UserSuperviseur UserRole = "SUPERVISEUR"
	UserTechnicien  UserRole = "TECHNICIEN"
	UserEmploye     UserRole = "EMPLOYE"
)

// Valid reports whether r is one of the four account roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserAdmin, UserSuperviseur, UserTechnicien, UserEmploye:
		return true
	}
	return false
}

// AccountRole maps a login role to its account role. Field employees log
// in with their job role (CHAUFFEUR, EBOUEUR), which is the EMPLOYE account.
func AccountRole(role string) UserRole {
	switch r := strings.ToUpper(strings.TrimSpace(role)); Role(r) {
	case RoleChauffeur, RoleEboueur:
		return UserEmploye
	default:
		return UserRole(r)
	}
}

// TourneeStatut is the lifecycle state of a collection route.
type TourneeStatut string

const (
	TourneePlanifiee TourneeStatut = "PLANIFIEE"
	TourneeEnCours   TourneeStatut = "EN_COURS"
	TourneeTerminee  TourneeStatut = "TERMINEE"
	TourneeAnnulee   TourneeStatut = "ANNULEE"
	TourneeRetardee  TourneeStatut = "RETARDEE"
)

// rank orders the main line PLANIFIEE < EN_COURS < TERMINEE.
// Side branches have no rank.
func (s TourneeStatut) rank() int {
	switch s {
	case TourneePlanifiee:
		return 1
	case TourneeEnCours:
		return 2
	case TourneeTerminee:
		return 3
	}
	return 0
}

func (s TourneeStatut) Valid() bool {
	return s.rank() > 0 || s == TourneeAnnulee || s == TourneeRetardee
}

// CanTransition reports whether a route may move from s to next.
//
// The main line only moves forward and may skip a step (a supervisor
// verifying a planned route marks it TERMINEE directly). ANNULEE and
// RETARDEE may be entered from any non-final main-line state; a delayed
// route may resume EN_COURS or finish. Nothing leaves TERMINEE or ANNULEE.
func (s TourneeStatut) CanTransition(next TourneeStatut) bool {
	if !next.Valid() || s == next {
		return false
	}
	switch s {
	case TourneeTerminee, TourneeAnnulee:
		return false
	case TourneeRetardee:
		return next == TourneeEnCours || next == TourneeTerminee || next == TourneeAnnulee
	}
	if next == TourneeAnnulee || next == TourneeRetardee {
		return true
	}
	return next.rank() > s.rank()
}

// SignalementType classifies a report.
type SignalementType string

const (
	SignalementDebordement SignalementType = "DEBORDEMENT"
	SignalementDegradation SignalementType = "DEGRADATION"
	SignalementOdeur       SignalementType = "ODEUR"
	SignalementIncendie    SignalementType = "INCENDIE"
	SignalementMauvaisTri  SignalementType = "MAUVAIS_TRI"
	SignalementAnimaux     SignalementType = "ANIMAUX"
	SignalementAutre       SignalementType = "AUTRE"
)

// SignalementStatut is the handling state of a report.
type SignalementStatut string

const (
	SignalementNouveau      SignalementStatut = "NOUVEAU"
	SignalementEnTraitement SignalementStatut = "EN_TRAITEMENT"
	SignalementResolu       SignalementStatut = "RESOLU"
	SignalementUrgent       SignalementStatut = "URGENT"
)

func (s SignalementStatut) Valid() bool {
	switch s {
	case SignalementNouveau, SignalementEnTraitement, SignalementResolu, SignalementUrgent:
		return true
	}
	return false
}

// Priority of an ephemeral notification.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// RoleAll addresses a notification to every role.
const RoleAll = "ALL"
