// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package models

// Patches carry the fields of a partial update. A nil field is left unchanged.

type PointPatch struct {
	Localisation      *string    `json:"localisation,omitempty"`
	TypeDechet        *WasteType `json:"typeDechet,omitempty"`
	NiveauRemplissage *int       `json:"niveauRemplissage,omitempty"`
	EtatConteneur     *PointEtat `json:"etatConteneur,omitempty"`
	Capacite          *int       `json:"capacite,omitempty"`
	Modele            *string    `json:"modele,omitempty"`
	DerniereCollecte  *string    `json:"derniereCollecte,omitempty"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
}

// Apply returns p with the patch merged in.
//
//nolint:gocritic // Point is small and copied on purpose
func (pp PointPatch) Apply(p Point) Point {
	if pp.Localisation != nil {
		p.Localisation = *pp.Localisation
	}
	if pp.TypeDechet != nil {
		t := *pp.TypeDechet
		p.TypeDechet = &t
	}
	if pp.NiveauRemplissage != nil {
		p.NiveauRemplissage = *pp.NiveauRemplissage
	}
	if pp.EtatConteneur != nil {
		p.EtatConteneur = *pp.EtatConteneur
	}
	if pp.Capacite != nil {
		p.Capacite = Int(*pp.Capacite)
	}
	if pp.Modele != nil {
		p.Modele = *pp.Modele
	}
	if pp.DerniereCollecte != nil {
		p.DerniereCollecte = *pp.DerniereCollecte
	}
	if pp.Latitude != nil {
		p.Latitude = Float64(*pp.Latitude)
	}
	if pp.Longitude != nil {
		p.Longitude = Float64(*pp.Longitude)
	}
	return p
}

type VehiculePatch struct {
	Immatriculation *string         `json:"immatriculation,omitempty"`
	Type            *string         `json:"type,omitempty"`
	Capacite        *float64        `json:"capacite,omitempty"`
	Disponibilite   *bool           `json:"disponibilite,omitempty"`
	Statut          *VehiculeStatut `json:"statut,omitempty"`
	Conducteur      *EmployeRef     `json:"conducteur,omitempty"`
}

// Apply merges the patch. Setting Statut also sets Etat.
//
//nolint:gocritic // Vehicule is copied on purpose
func (vp VehiculePatch) Apply(v Vehicule) Vehicule {
	if vp.Immatriculation != nil {
		v.Immatriculation = *vp.Immatriculation
	}
	if vp.Type != nil {
		v.Type = *vp.Type
	}
	if vp.Capacite != nil {
		v.Capacite = *vp.Capacite
	}
	if vp.Disponibilite != nil {
		v.Disponibilite = *vp.Disponibilite
	}
	if vp.Statut != nil {
		v.Statut = *vp.Statut
		v.Etat = *vp.Statut
	}
	if vp.Conducteur != nil {
		c := *vp.Conducteur
		v.Conducteur = &c
	}
	return v
}

type EmployePatch struct {
	Nom          *string `json:"nom,omitempty"`
	Prenom       *string `json:"prenom,omitempty"`
	Role         *Role   `json:"role,omitempty"`
	Telephone    *string `json:"telephone,omitempty"`
	Email        *string `json:"email,omitempty"`
	Adresse      *string `json:"adresse,omitempty"`
	DateEmbauche *string `json:"dateEmbauche,omitempty"`
	Disponible   *bool   `json:"disponible,omitempty"`
}

//nolint:gocritic // Employe is copied on purpose
func (ep EmployePatch) Apply(e Employe) Employe {
	if ep.Nom != nil {
		e.Nom = *ep.Nom
	}
	if ep.Prenom != nil {
		e.Prenom = *ep.Prenom
	}
	if ep.Role != nil {
		e.Role = *ep.Role
	}
	if ep.Telephone != nil {
		e.Telephone = *ep.Telephone
	}
	if ep.Email != nil {
		e.Email = *ep.Email
	}
	if ep.Adresse != nil {
		e.Adresse = *ep.Adresse
	}
	if ep.DateEmbauche != nil {
		e.DateEmbauche = *ep.DateEmbauche
	}
	if ep.Disponible != nil {
		e.Disponible = *ep.Disponible
	}
	return e
}

// TourneePatch updates a route. A nil slice leaves the list unchanged; an
// empty non-nil slice clears it.
type TourneePatch struct {
	Date              *string        `json:"date,omitempty"`
	HeureDebut        *string        `json:"heureDebut,omitempty"`
	HeureFin          *string        `json:"heureFin,omitempty"`
	VehiculeID        *string        `json:"vehiculeId,omitempty"`
	EmployeIDs        []string       `json:"employeIds,omitempty"`
	PointsCollecteIDs []string       `json:"pointsCollecteIds,omitempty"`
	Statut            *TourneeStatut `json:"statut,omitempty"`
	DistanceKm        *float64       `json:"distanceKm,omitempty"`
}

//nolint:gocritic // Tournee is copied on purpose
func (tp TourneePatch) Apply(t Tournee) Tournee {
	if tp.Date != nil {
		t.Date = *tp.Date
	}
	if tp.HeureDebut != nil {
		t.HeureDebut = *tp.HeureDebut
	}
	if tp.HeureFin != nil {
		t.HeureFin = *tp.HeureFin
	}
	if tp.VehiculeID != nil {
		t.VehiculeID = *tp.VehiculeID
	}
	if tp.EmployeIDs != nil {
		t.EmployeIDs = append([]string{}, tp.EmployeIDs...)
	}
	if tp.PointsCollecteIDs != nil {
		t.PointsCollecteIDs = append([]string{}, tp.PointsCollecteIDs...)
	}
	if tp.Statut != nil {
		t.Statut = *tp.Statut
	}
	if tp.DistanceKm != nil {
		t.DistanceKm = *tp.DistanceKm
	}
	return t
}

type UserPatch struct {
	Mail      *string `json:"mail,omitempty"`
	Nom       *string `json:"nom,omitempty"`
	Prenom    *string `json:"prenom,omitempty"`
	Telephone *int64  `json:"telephone,omitempty"`
	Password  *string `json:"password,omitempty"`
}

//nolint:gocritic // User is copied on purpose
func (up UserPatch) Apply(u User) User {
	if up.Mail != nil {
		u.Mail = *up.Mail
	}
	if up.Nom != nil {
		u.Nom = *up.Nom
	}
	if up.Prenom != nil {
		u.Prenom = *up.Prenom
	}
	if up.Telephone != nil {
		u.Telephone = *up.Telephone
	}
	if up.Password != nil {
		u.Password = *up.Password
	}
	return u
}

func Int(v int) *int             { return &v }
func Int64(v int64) *int64       { return &v }
func Float64(v float64) *float64 { return &v }
func String(v string) *string    { return &v }
func Bool(v bool) *bool          { return &v }
