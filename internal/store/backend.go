// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"

	"github.com/tomtom215/urbanwaste/internal/client"
	"github.com/tomtom215/urbanwaste/internal/models"
)

// PointsAPI is the subset of client.PointsService the store uses.
type PointsAPI interface {
	List(ctx context.Context) ([]models.PointDTO, error)
	Create(ctx context.Context, p models.PointDTO) (models.PointDTO, error)
	Update(ctx context.Context, id int64, p models.PointDTO) (models.PointDTO, error)
	Delete(ctx context.Context, id int64) error
	Critical(ctx context.Context, threshold float64) ([]models.PointDTO, error)
	Stats(ctx context.Context) (models.PointStats, error)
	UpdateFillLevel(ctx context.Context, id int64, level float64) (models.PointDTO, error)
	Import(ctx context.Context, filename string, data []byte) (client.ImportResult, error)
}

type VehiculesAPI interface {
	List(ctx context.Context) ([]models.VehiculeDTO, error)
	Create(ctx context.Context, v models.VehiculeDTO) (models.VehiculeDTO, error)
	Update(ctx context.Context, id int64, v models.VehiculeDTO) (models.VehiculeDTO, error)
	Delete(ctx context.Context, id int64) error
	ByStatus(ctx context.Context, status string) ([]models.VehiculeDTO, error)
	Import(ctx context.Context, filename string, data []byte) (client.ImportResult, error)
}

type EmployesAPI interface {
	List(ctx context.Context) ([]models.UtilisateurDTO, error)
	Create(ctx context.Context, e models.UtilisateurDTO) (models.UtilisateurDTO, error)
	Update(ctx context.Context, id int64, e models.UtilisateurDTO) (models.UtilisateurDTO, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, name string) ([]models.UtilisateurDTO, error)
}

type TourneesAPI interface {
	List(ctx context.Context) ([]models.TourneeDTO, error)
	Create(ctx context.Context, t models.TourneeDTO) (models.TourneeDTO, error)
	Update(ctx context.Context, id int64, t models.TourneeDTO) (models.TourneeDTO, error)
	Delete(ctx context.Context, id int64) error
	Import(ctx context.Context, filename string, data []byte) (client.ImportResult, error)
	Export(ctx context.Context) ([]byte, error)
}

type SignalementsAPI interface {
	List(ctx context.Context) ([]models.SignalementDTO, error)
	Create(ctx context.Context, r models.SignalementDTO) (models.SignalementDTO, error)
	ByEmploye(ctx context.Context, employeID int64) ([]models.SignalementDTO, error)
	UpdateStatut(ctx context.Context, id int64, statut string) (models.SignalementDTO, error)
}

type UsersAPI interface {
	List(ctx context.Context, role models.UserRole) ([]models.UtilisateurDTO, error)
	Create(ctx context.Context, role models.UserRole, u models.UtilisateurDTO) (models.UtilisateurDTO, error)
	Update(ctx context.Context, role models.UserRole, id int64, u models.UtilisateurDTO) (models.UtilisateurDTO, error)
	Delete(ctx context.Context, role models.UserRole, id int64) error
}

type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
}

type TechnicienAPI interface {
	Notifications(ctx context.Context, unreadOnly bool) ([]models.NotificationDTO, error)
	MarkRead(ctx context.Context, id int64) error
	UpdateVehiculeStatus(ctx context.Context, id int64, status string) (models.VehiculeDTO, error)
}

// TokenSetter receives the bearer token obtained at login.
type TokenSetter interface {
	SetToken(token string)
}

// Backend groups the remote services. Every field is required.
type Backend struct {
	Points       PointsAPI
	Vehicules    VehiculesAPI
	Employes     EmployesAPI
	Tournees     TourneesAPI
	Signalements SignalementsAPI
	Users        UsersAPI
	Auth         AuthAPI
	Technicien   TechnicienAPI
	Token        TokenSetter
}

// FromClient wires every service of c.
func FromClient(c *client.Client) Backend {
	return Backend{
		Points:       c.Points,
		Vehicules:    c.Vehicules,
		Employes:     c.Employes,
		Tournees:     c.Tournees,
		Signalements: c.Signalements,
		Users:        c.Users,
		Auth:         c.Auth,
		Technicien:   c.Technicien,
		Token:        c,
	}
}

// SessionStore persists the logged-in session across restarts.
type SessionStore interface {
	// Load returns nil and no error when nothing is stored.
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}
