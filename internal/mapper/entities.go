// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package mapper

import (
	"strings"
	"time"

	"github.com/tomtom215/urbanwaste/internal/models"
)

// ========================================
// Collection points
// ========================================

// PointFromDTO maps a backend PointCollecte. The fill level is rounded and
// clamped, and the location falls back from localisation to adresse to
// address. A 0,0 coordinate pair is the backend's default for "unknown"
// and maps to no coordinates.
func (m *Mapper) PointFromDTO(d models.PointDTO) models.Point {
	p := models.Point{
		ID:                d.ID,
		Localisation:      firstNonEmpty(d.Localisation, d.Adresse, d.Address),
		NiveauRemplissage: ClampFill(d.NiveauRemplissage),
		EtatConteneur:     models.PointEtat(firstNonEmpty(d.EtatConteneur, d.Etat, string(models.PointActif))),
		Modele:            d.Modele,
		DerniereCollecte:  d.DateDerniereCollecte.ISOString(),
	}
	if d.TypeDechet != nil {
		p.TypeDechet = &models.WasteType{ID: d.TypeDechet.ID, Nom: d.TypeDechet.Nom}
	}
	if d.Capacite != nil {
		p.Capacite = models.Int(*d.Capacite)
	}
	if d.Latitude != nil && d.Longitude != nil && (*d.Latitude != 0 || *d.Longitude != 0) {
		p.Latitude = models.Float64(*d.Latitude)
		p.Longitude = models.Float64(*d.Longitude)
	}
	return p
}

// PointsFromDTO maps a list of points.
func (m *Mapper) PointsFromDTO(ds []models.PointDTO) []models.Point {
	out := make([]models.Point, 0, len(ds))
	for i := range ds {
		out = append(out, m.PointFromDTO(ds[i]))
	}
	return out
}

// PointToDTO builds the PUT/POST body for a point.
//
//nolint:gocritic // Point is copied on purpose
func (m *Mapper) PointToDTO(p models.Point) models.PointDTO {
	d := models.PointDTO{
		ID:                p.ID,
		Localisation:      p.Localisation,
		NiveauRemplissage: float64(ClampFill(float64(p.NiveauRemplissage))),
		EtatConteneur:     string(p.EtatConteneur),
		Modele:            p.Modele,
		Latitude:          p.Latitude,
		Longitude:         p.Longitude,
		Capacite:          p.Capacite,
	}
	if d.EtatConteneur == "" {
		d.EtatConteneur = string(models.PointActif)
	}
	if p.TypeDechet != nil {
		d.TypeDechet = &models.WasteTypeDTO{ID: p.TypeDechet.ID, Nom: p.TypeDechet.Nom}
	}
	if p.DerniereCollecte != "" {
		if t, err := models.ParseFlexTime(p.DerniereCollecte); err == nil {
			d.DateDerniereCollecte = models.NewFlexTime(t)
		}
	}
	return d
}

// ========================================
// Vehicles
// ========================================

// VehiculeFromDTO maps a backend Vehicule. Type falls back from
// typeVehicule to type; status falls back from statut to etat to
// DISPONIBLE and is written to both Statut and Etat.
func (m *Mapper) VehiculeFromDTO(d models.VehiculeDTO) models.Vehicule {
	statut := models.VehiculeStatut(firstNonEmpty(d.Statut, d.Etat, string(models.VehiculeDisponible)))
	v := models.Vehicule{
		ID:              d.ID,
		Immatriculation: d.Immatriculation,
		Type:            firstNonEmpty(d.TypeVehicule, d.Type),
		Capacite:        d.Capacite,
		Disponibilite:   d.Disponibilite == nil || *d.Disponibilite,
		Statut:          statut,
		Etat:            statut,
	}
	if d.Conducteur != nil {
		v.Conducteur = &models.EmployeRef{
			ID:     FormatID(d.Conducteur.ID),
			Nom:    d.Conducteur.Nom,
			Prenom: d.Conducteur.Prenom,
		}
	}
	return v
}

func (m *Mapper) VehiculesFromDTO(ds []models.VehiculeDTO) []models.Vehicule {
	out := make([]models.Vehicule, 0, len(ds))
	for i := range ds {
		out = append(out, m.VehiculeFromDTO(ds[i]))
	}
	return out
}

// VehiculeToDTO builds the body for a vehicle. The id is 0 on create. The
// conducteur field is always present, null when unassigned.
//
//nolint:gocritic // Vehicule is copied on purpose
func (m *Mapper) VehiculeToDTO(v models.Vehicule, isCreate bool) models.VehiculeDTO {
	statut := firstNonEmpty(string(v.Statut), string(v.Etat), string(models.VehiculeDisponible))
	d := models.VehiculeDTO{
		ID:              v.ID,
		TypeVehicule:    v.Type,
		Capacite:        v.Capacite,
		Disponibilite:   models.Bool(v.Disponibilite),
		Immatriculation: v.Immatriculation,
		Statut:          statut,
		Etat:            statut,
	}
	if isCreate {
		d.ID = 0
	}
	if v.Conducteur != nil {
		d.Conducteur = &models.UtilisateurDTO{
			ID:     ParseID(v.Conducteur.ID),
			Nom:    v.Conducteur.Nom,
			Prenom: v.Conducteur.Prenom,
		}
	}
	return d
}

// ========================================
// Employees
// ========================================

func inboundRole(r string) models.Role {
	switch models.Role(r) {
	case models.RoleChauffeur, models.RoleSuperviseur:
		return models.Role(r)
	}
	return models.RoleEboueur
}

func outboundRole(r models.Role) string {
	switch r {
	case models.RoleChauffeur, models.RoleSuperviseur:
		return string(r)
	}
	return string(models.UserEmploye)
}

// EmployeFromDTO maps a backend Employee. The backend does not store the
// address or hire date, so those are carried over from local (the record
// being replaced, or the draft that was sent); local may be nil. A zero
// telephone maps to "".
func (m *Mapper) EmployeFromDTO(d models.UtilisateurDTO, local *models.Employe) models.Employe {
	e := models.Employe{
		ID:         FormatID(d.ID),
		Nom:        d.Nom,
		Prenom:     d.Prenom,
		Role:       inboundRole(d.Role),
		Email:      firstNonEmpty(d.Mail, d.Email),
		Disponible: true,
	}
	if d.Telephone != 0 {
		e.Telephone = FormatID(d.Telephone)
	}
	switch {
	case d.Disponible != nil:
		e.Disponible = *d.Disponible
	case local != nil:
		e.Disponible = local.Disponible
	}
	if local != nil {
		e.Adresse = local.Adresse
		e.DateEmbauche = local.DateEmbauche
		if e.Email == "" {
			e.Email = local.Email
		}
	}
	return e
}

func (m *Mapper) EmployesFromDTO(ds []models.UtilisateurDTO) []models.Employe {
	out := make([]models.Employe, 0, len(ds))
	for i := range ds {
		out = append(out, m.EmployeFromDTO(ds[i], nil))
	}
	return out
}

// PlaceholderEmail returns prenom.nom@domain in lower case.
func (m *Mapper) PlaceholderEmail(prenom, nom string) string {
	return strings.ToLower(strings.TrimSpace(prenom)) + "." + strings.ToLower(strings.TrimSpace(nom)) + "@" + m.emailDomain
}

// EmployeToDTO builds the Utilisateur body for an employee. Names are
// trimmed, the telephone is reduced to its digits, and a missing mail or a
// telephone that parses to 0 is replaced with a placeholder. Disponible is
// not part of the Utilisateur shape and is never sent.
//
//nolint:gocritic // Employe is copied on purpose
func (m *Mapper) EmployeToDTO(e models.Employe, isCreate bool) models.UtilisateurDTO {
	d := models.UtilisateurDTO{
		Nom:    strings.TrimSpace(e.Nom),
		Prenom: strings.TrimSpace(e.Prenom),
		Mail:   strings.TrimSpace(e.Email),
		Role:   outboundRole(e.Role),
	}
	if !isCreate {
		d.ID = ParseID(e.ID)
	}
	if d.Mail == "" {
		d.Mail = m.PlaceholderEmail(d.Prenom, d.Nom)
	}
	if n := ParseID(digitsOnly(e.Telephone)); n != 0 {
		d.Telephone = n
	} else {
		d.Telephone = m.placeholderPhone
	}
	return d
}

// ========================================
// Reports
// ========================================

// SignalementFromDTO maps a backend Signalement. Status defaults to NOUVEAU.
func (m *Mapper) SignalementFromDTO(d models.SignalementDTO) models.Signalement {
	return models.Signalement{
		ID:              FormatID(d.ID),
		Date:            d.DateSignalement.ISOString(),
		Type:            models.SignalementType(firstNonEmpty(d.Type, string(models.SignalementAutre))),
		Message:         d.Description,
		Statut:          models.SignalementStatut(firstNonEmpty(d.Statut, string(models.SignalementNouveau))),
		CitoyenID:       optionalID(d.CitoyenID),
		EmployeID:       optionalID(d.EmployeID),
		PointCollecteID: optionalID(d.PointCollecteID),
		PhotoURL:        d.PhotoURL,
	}
}

func (m *Mapper) SignalementsFromDTO(ds []models.SignalementDTO) []models.Signalement {
	out := make([]models.Signalement, 0, len(ds))
	for i := range ds {
		out = append(out, m.SignalementFromDTO(ds[i]))
	}
	return out
}

// SignalementToDTO builds the POST body for a report. An empty date is left
// for the backend to fill.
//
//nolint:gocritic // Signalement is copied on purpose
func (m *Mapper) SignalementToDTO(s models.Signalement) models.SignalementDTO {
	d := models.SignalementDTO{
		ID:              ParseID(s.ID),
		Type:            string(s.Type),
		Description:     s.Message,
		Statut:          firstNonEmpty(string(s.Statut), string(models.SignalementNouveau)),
		CitoyenID:       optionalNumericID(s.CitoyenID),
		EmployeID:       optionalNumericID(s.EmployeID),
		PointCollecteID: optionalNumericID(s.PointCollecteID),
		PhotoURL:        s.PhotoURL,
	}
	if s.Date != "" {
		if t, err := models.ParseFlexTime(s.Date); err == nil {
			d.DateSignalement = models.NewFlexTime(t)
		}
	}
	return d
}

// ========================================
// Users, notifications and session
// ========================================

// UserFromDTO maps an Utilisateur returned by a per-role endpoint. The
// role endpoints omit the role, so it is taken from the endpoint.
func (m *Mapper) UserFromDTO(d models.UtilisateurDTO, role models.UserRole) models.User {
	u := models.User{
		ID:        d.ID,
		Mail:      firstNonEmpty(d.Mail, d.Email),
		Nom:       d.Nom,
		Prenom:    d.Prenom,
		Telephone: d.Telephone,
		Role:      models.UserRole(d.Role),
	}
	if !u.Role.Valid() {
		u.Role = role
	}
	return u
}

func (m *Mapper) UsersFromDTO(ds []models.UtilisateurDTO, role models.UserRole) []models.User {
	out := make([]models.User, 0, len(ds))
	for i := range ds {
		out = append(out, m.UserFromDTO(ds[i], role))
	}
	return out
}

// UserToDTO builds the body for a per-role account. A zero telephone gets
// the placeholder.
//
//nolint:gocritic // User is copied on purpose
func (m *Mapper) UserToDTO(u models.User, isCreate bool) models.UtilisateurDTO {
	d := models.UtilisateurDTO{
		ID:        u.ID,
		Mail:      strings.TrimSpace(u.Mail),
		Nom:       strings.TrimSpace(u.Nom),
		Prenom:    strings.TrimSpace(u.Prenom),
		Telephone: u.Telephone,
		Password:  u.Password,
		Role:      string(u.Role),
	}
	if isCreate {
		d.ID = 0
	}
	if d.Mail == "" {
		d.Mail = m.PlaceholderEmail(d.Prenom, d.Nom)
	}
	if d.Telephone == 0 {
		d.Telephone = m.placeholderPhone
	}
	return d
}

// TechNotificationFromDTO maps a persisted technician notification.
func (m *Mapper) TechNotificationFromDTO(d models.NotificationDTO) models.TechNotification {
	n := models.TechNotification{
		ID:        d.ID,
		Titre:     d.Titre,
		Message:   d.Message,
		RoleCible: d.RoleCible,
		Lue:       d.Lue,
		Type:      d.Type,
	}
	if d.DateCreation != nil {
		n.DateCreation = d.DateCreation.UTC()
	}
	if d.VehiculeID != nil {
		n.VehiculeID = *d.VehiculeID
	}
	return n
}

func (m *Mapper) TechNotificationsFromDTO(ds []models.NotificationDTO) []models.TechNotification {
	out := make([]models.TechNotification, 0, len(ds))
	for i := range ds {
		out = append(out, m.TechNotificationFromDTO(ds[i]))
	}
	return out
}

// DisplayName joins prenom and nom, or returns whichever part exists.
func DisplayName(prenom, nom string) string {
	return strings.TrimSpace(strings.TrimSpace(prenom) + " " + strings.TrimSpace(nom))
}

// SessionFromLogin builds the persisted session from a login response.
// mail is the address used to log in; the response rarely echoes it.
func (m *Mapper) SessionFromLogin(r models.LoginResponse, mail string, now time.Time) models.Session {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = DisplayName(r.Prenom, r.Nom)
	}
	return models.Session{
		Token: r.Token,
		User: models.SessionUser{
			ID:   r.ID,
			Name: name,
			Mail: firstNonEmpty(r.Mail, mail),
			Role: models.AccountRole(r.Role),
		},
		CreatedAt: now.UTC(),
	}
}
