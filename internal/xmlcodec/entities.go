// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package xmlcodec

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/tomtom215/urbanwaste/internal/models"
)

// ========================================
// Points
// ========================================

type wasteTypeXML struct {
	ID  int64  `xml:"id"`
	Nom string `xml:"nom"`
}

type pointOutXML struct {
	ID                int64         `xml:"id"`
	Latitude          string        `xml:"latitude"`
	Longitude         string        `xml:"longitude"`
	Adresse           string        `xml:"adresse"`
	Type              *wasteTypeXML `xml:"type"`
	NiveauRemplissage int           `xml:"niveauRemplissage"`
	Etat              string        `xml:"etat"`
	DerniereCollecte  string        `xml:"derniereCollecte"`
	Capacite          string        `xml:"capacite"`
	Modele            string        `xml:"modele"`
}

type pointsOutXML struct {
	XMLName xml.Name      `xml:"points"`
	Points  []pointOutXML `xml:"point"`
}

// pointInXML reads <type> as text; nested children are skipped.
type pointInXML struct {
	ID                string `xml:"id"`
	Latitude          string `xml:"latitude"`
	Longitude         string `xml:"longitude"`
	Adresse           string `xml:"adresse"`
	Type              string `xml:"type"`
	NiveauRemplissage string `xml:"niveauRemplissage"`
	Etat              string `xml:"etat"`
	DerniereCollecte  string `xml:"derniereCollecte"`
	Capacite          string `xml:"capacite"`
	Modele            string `xml:"modele"`
}

// GeneratePointsXML writes a <points> document.
func GeneratePointsXML(points []models.Point) ([]byte, error) {
	doc := pointsOutXML{Points: make([]pointOutXML, 0, len(points))}
	for i := range points {
		p := &points[i]
		item := pointOutXML{
			ID:                p.ID,
			Latitude:          formatOptionalFloat(p.Latitude),
			Longitude:         formatOptionalFloat(p.Longitude),
			Adresse:           p.Localisation,
			NiveauRemplissage: p.NiveauRemplissage,
			Etat:              string(p.EtatConteneur),
			DerniereCollecte:  p.DerniereCollecte,
			Modele:            p.Modele,
		}
		if p.TypeDechet != nil {
			item.Type = &wasteTypeXML{ID: p.TypeDechet.ID, Nom: p.TypeDechet.Nom}
		}
		if p.Capacite != nil {
			item.Capacite = strconv.Itoa(*p.Capacite)
		}
		doc.Points = append(doc.Points, item)
	}
	return marshal(doc)
}

// ParsePointsXML reads every <point> element. Defaults: id 0, type
// PLASTIQUE, state ACTIF, fill level 0.
func ParsePointsXML(data []byte) ([]models.Point, error) {
	items, err := decodeItems[pointInXML](data, "point")
	if err != nil {
		return nil, err
	}
	points := make([]models.Point, 0, len(items))
	for i := range items {
		in := &items[i]
		p := models.Point{
			ID:                parseInt(in.ID),
			Localisation:      text(in.Adresse),
			TypeDechet:        &models.WasteType{Nom: orDefault(in.Type, models.DechetPlastique)},
			NiveauRemplissage: int(parseInt(in.NiveauRemplissage)),
			EtatConteneur:     models.PointEtat(orDefault(in.Etat, string(models.PointActif))),
			DerniereCollecte:  text(in.DerniereCollecte),
			Latitude:          parseOptionalFloat(in.Latitude),
			Longitude:         parseOptionalFloat(in.Longitude),
			Modele:            text(in.Modele),
		}
		if text(in.Capacite) != "" {
			p.Capacite = models.Int(int(parseInt(in.Capacite)))
		}
		points = append(points, p)
	}
	return points, nil
}

// ========================================
// Vehicles
// ========================================

type vehiculeXML struct {
	ID              string `xml:"id"`
	Immatriculation string `xml:"immatriculation"`
	Capacite        string `xml:"capacite"`
	Type            string `xml:"type"`
	Statut          string `xml:"statut"`
}

type vehiculesXML struct {
	XMLName   xml.Name      `xml:"vehicules"`
	Vehicules []vehiculeXML `xml:"vehicule"`
}

func GenerateVehiculesXML(vehicules []models.Vehicule) ([]byte, error) {
	doc := vehiculesXML{Vehicules: make([]vehiculeXML, 0, len(vehicules))}
	for i := range vehicules {
		v := &vehicules[i]
		statut := string(v.Statut)
		if statut == "" {
			statut = string(v.Etat)
		}
		doc.Vehicules = append(doc.Vehicules, vehiculeXML{
			ID:              strconv.FormatInt(v.ID, 10),
			Immatriculation: v.Immatriculation,
			Capacite:        formatFloat(v.Capacite),
			Type:            v.Type,
			Statut:          orDefault(statut, string(models.VehiculeDisponible)),
		})
	}
	return marshal(doc)
}

// ParseVehiculesXML reads every <vehicule>. Imported vehicles are
// available, with status DISPONIBLE unless given.
func ParseVehiculesXML(data []byte) ([]models.Vehicule, error) {
	items, err := decodeItems[vehiculeXML](data, "vehicule")
	if err != nil {
		return nil, err
	}
	out := make([]models.Vehicule, 0, len(items))
	for i := range items {
		in := &items[i]
		statut := models.VehiculeStatut(orDefault(in.Statut, string(models.VehiculeDisponible)))
		out = append(out, models.Vehicule{
			ID:              parseInt(in.ID),
			Immatriculation: text(in.Immatriculation),
			Type:            text(in.Type),
			Capacite:        parseFloat(in.Capacite),
			Disponibilite:   true,
			Statut:          statut,
			Etat:            statut,
		})
	}
	return out, nil
}

// ========================================
// Employees
// ========================================

type employeXML struct {
	ID           string `xml:"id"`
	Nom          string `xml:"nom"`
	Prenom       string `xml:"prenom"`
	Role         string `xml:"role"`
	Disponible   string `xml:"disponible"`
	Telephone    string `xml:"telephone"`
	Email        string `xml:"email"`
	DateEmbauche string `xml:"dateEmbauche"`
	Adresse      string `xml:"adresse"`
}

type employesXML struct {
	XMLName  xml.Name     `xml:"employes"`
	Employes []employeXML `xml:"employe"`
}

func GenerateEmployesXML(employes []models.Employe) ([]byte, error) {
	doc := employesXML{Employes: make([]employeXML, 0, len(employes))}
	for i := range employes {
		e := &employes[i]
		doc.Employes = append(doc.Employes, employeXML{
			ID:           e.ID,
			Nom:          e.Nom,
			Prenom:       e.Prenom,
			Role:         string(e.Role),
			Disponible:   strconv.FormatBool(e.Disponible),
			Telephone:    e.Telephone,
			Email:        e.Email,
			DateEmbauche: e.DateEmbauche,
			Adresse:      e.Adresse,
		})
	}
	return marshal(doc)
}

// ParseEmployesXML reads every <employe>. A missing id gets a UUID, the
// role defaults to EBOUEUR, and disponible is true only for "true".
func ParseEmployesXML(data []byte) ([]models.Employe, error) {
	items, err := decodeItems[employeXML](data, "employe")
	if err != nil {
		return nil, err
	}
	out := make([]models.Employe, 0, len(items))
	for i := range items {
		in := &items[i]
		out = append(out, models.Employe{
			ID:           orUUID(in.ID),
			Nom:          text(in.Nom),
			Prenom:       text(in.Prenom),
			Role:         models.Role(orDefault(in.Role, string(models.RoleEboueur))),
			Disponible:   text(in.Disponible) == "true",
			Telephone:    text(in.Telephone),
			Email:        text(in.Email),
			DateEmbauche: text(in.DateEmbauche),
			Adresse:      text(in.Adresse),
		})
	}
	return out, nil
}

// ========================================
// Reports
// ========================================

type signalementXML struct {
	ID              string `xml:"id"`
	Date            string `xml:"date"`
	Type            string `xml:"type"`
	Message         string `xml:"message"`
	Statut          string `xml:"statut"`
	CitoyenID       string `xml:"citoyenId"`
	EmployeID       string `xml:"employeId"`
	PointCollecteID string `xml:"pointCollecteId"`
}

type signalementsXML struct {
	XMLName      xml.Name         `xml:"signalements"`
	Signalements []signalementXML `xml:"signalement"`
}

func GenerateSignalementsXML(signalements []models.Signalement) ([]byte, error) {
	doc := signalementsXML{Signalements: make([]signalementXML, 0, len(signalements))}
	for i := range signalements {
		s := &signalements[i]
		doc.Signalements = append(doc.Signalements, signalementXML{
			ID:              s.ID,
			Date:            s.Date,
			Type:            string(s.Type),
			Message:         s.Message,
			Statut:          string(s.Statut),
			CitoyenID:       s.CitoyenID,
			EmployeID:       s.EmployeID,
			PointCollecteID: s.PointCollecteID,
		})
	}
	return marshal(doc)
}

// ParseSignalementsXML reads every <signalement>. Status defaults to NOUVEAU.
func ParseSignalementsXML(data []byte) ([]models.Signalement, error) {
	items, err := decodeItems[signalementXML](data, "signalement")
	if err != nil {
		return nil, err
	}
	out := make([]models.Signalement, 0, len(items))
	for i := range items {
		in := &items[i]
		out = append(out, models.Signalement{
			ID:              orUUID(in.ID),
			Date:            text(in.Date),
			Type:            models.SignalementType(text(in.Type)),
			Message:         text(in.Message),
			Statut:          models.SignalementStatut(orDefault(in.Statut, string(models.SignalementNouveau))),
			CitoyenID:       text(in.CitoyenID),
			EmployeID:       text(in.EmployeID),
			PointCollecteID: text(in.PointCollecteID),
		})
	}
	return out, nil
}

// ========================================
// Routes
// ========================================

type tourneeXML struct {
	ID                string `xml:"id"`
	Date              string `xml:"date"`
	VehiculeID        string `xml:"vehiculeId"`
	EmployeIDs        string `xml:"employeIds"`
	PointsCollecteIDs string `xml:"pointsCollecteIds"`
	Statut            string `xml:"statut"`
	DistanceKm        string `xml:"distanceKm"`
	HeureDebut        string `xml:"heureDebut"`
	HeureFin          string `xml:"heureFin"`
}

type tourneesXML struct {
	XMLName  xml.Name     `xml:"tournees"`
	Tournees []tourneeXML `xml:"tournee"`
}

// GenerateTourneesXML writes a <tournees> document with id lists
// comma-joined. A zero distance is written empty.
func GenerateTourneesXML(tournees []models.Tournee) ([]byte, error) {
	doc := tourneesXML{Tournees: make([]tourneeXML, 0, len(tournees))}
	for i := range tournees {
		t := &tournees[i]
		item := tourneeXML{
			ID:                t.ID,
			Date:              t.Date,
			VehiculeID:        t.VehiculeID,
			EmployeIDs:        strings.Join(t.EmployeIDs, ","),
			PointsCollecteIDs: strings.Join(t.PointsCollecteIDs, ","),
			Statut:            string(t.Statut),
			HeureDebut:        t.HeureDebut,
			HeureFin:          t.HeureFin,
		}
		if t.DistanceKm != 0 {
			item.DistanceKm = formatFloat(t.DistanceKm)
		}
		doc.Tournees = append(doc.Tournees, item)
	}
	return marshal(doc)
}

// ParseTourneesXML reads every <tournee>. Status defaults to PLANIFIEE.
func ParseTourneesXML(data []byte) ([]models.Tournee, error) {
	items, err := decodeItems[tourneeXML](data, "tournee")
	if err != nil {
		return nil, err
	}
	out := make([]models.Tournee, 0, len(items))
	for i := range items {
		in := &items[i]
		out = append(out, models.Tournee{
			ID:                orUUID(in.ID),
			Date:              text(in.Date),
			VehiculeID:        text(in.VehiculeID),
			EmployeIDs:        splitIDs(in.EmployeIDs),
			PointsCollecteIDs: splitIDs(in.PointsCollecteIDs),
			Statut:            models.TourneeStatut(orDefault(in.Statut, string(models.TourneePlanifiee))),
			DistanceKm:        parseFloat(in.DistanceKm),
			HeureDebut:        text(in.HeureDebut),
			HeureFin:          text(in.HeureFin),
		})
	}
	return out, nil
}
