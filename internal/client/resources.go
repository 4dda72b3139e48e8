// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tomtom215/urbanwaste/internal/models"
)

// ImportResult is the backend's answer to an XML upload.
type ImportResult struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
	Total    int    `json:"total"`
}

func idPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

// ========================================
// Generic CRUD helpers
// ========================================

func list[T any](ctx context.Context, c *Client, resource, path string, query url.Values) ([]T, error) {
	var out []T
	err := c.doRequest(ctx, requestConfig{resource: resource, method: http.MethodGet, path: path, query: query}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func send[T any](ctx context.Context, c *Client, resource, method, path string, body interface{}) (T, error) {
	var out T
	err := c.doRequest(ctx, requestConfig{resource: resource, method: method, path: path, body: body}, &out)
	return out, err
}

func remove(ctx context.Context, c *Client, resource, path string) error {
	return c.doRequest(ctx, requestConfig{resource: resource, method: http.MethodDelete, path: path}, nil)
}

// upload posts data as the multipart "file" field.
func upload(ctx context.Context, c *Client, resource, path, filename string, data []byte) (ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return ImportResult{}, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return ImportResult{}, fmt.Errorf("close multipart writer: %w", err)
	}

	var out ImportResult
	err = c.doRequest(ctx, requestConfig{
		resource:    resource,
		method:      http.MethodPost,
		path:        path,
		rawBody:     buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}, &out)
	return out, err
}

// ========================================
// Points
// ========================================

// PointsService covers /points.
type PointsService struct{ c *Client }

func (s *PointsService) List(ctx context.Context) ([]models.PointDTO, error) {
	return list[models.PointDTO](ctx, s.c, "points", "/points", nil)
}

func (s *PointsService) Get(ctx context.Context, id int64) (models.PointDTO, error) {
	return send[models.PointDTO](ctx, s.c, "points", http.MethodGet, idPath("/points", id), nil)
}

func (s *PointsService) Create(ctx context.Context, p models.PointDTO) (models.PointDTO, error) {
	return send[models.PointDTO](ctx, s.c, "points", http.MethodPost, "/points", p)
}

func (s *PointsService) Update(ctx context.Context, id int64, p models.PointDTO) (models.PointDTO, error) {
	return send[models.PointDTO](ctx, s.c, "points", http.MethodPut, idPath("/points", id), p)
}

func (s *PointsService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.c, "points", idPath("/points", id))
}

// Critical lists points whose fill level exceeds threshold.
func (s *PointsService) Critical(ctx context.Context, threshold float64) ([]models.PointDTO, error) {
	q := url.Values{"threshold": []string{strconv.FormatFloat(threshold, 'f', -1, 64)}}
	return list[models.PointDTO](ctx, s.c, "points", "/points/critical", q)
}

func (s *PointsService) Stats(ctx context.Context) (models.PointStats, error) {
	return send[models.PointStats](ctx, s.c, "points", http.MethodGet, "/points/stats", nil)
}

// ByType lists points by waste type name.
func (s *PointsService) ByType(ctx context.Context, wasteType string) ([]models.PointDTO, error) {
	return list[models.PointDTO](ctx, s.c, "points", "/points/type/"+url.PathEscape(wasteType), nil)
}

// UpdateFillLevel sets a point's fill level through the dedicated PATCH.
func (s *PointsService) UpdateFillLevel(ctx context.Context, id int64, level float64) (models.PointDTO, error) {
	var out models.PointDTO
	err := s.c.doRequest(ctx, requestConfig{
		resource: "points",
		method:   http.MethodPatch,
		path:     idPath("/points", id) + "/fill-level",
		query:    url.Values{"level": []string{strconv.FormatFloat(level, 'f', -1, 64)}},
	}, &out)
	return out, err
}

func (s *PointsService) Import(ctx context.Context, filename string, data []byte) (ImportResult, error) {
	return upload(ctx, s.c, "points", "/points/import", filename, data)
}

// ========================================
// Vehicles
// ========================================

// VehiculesService covers /vehicles.
type VehiculesService struct{ c *Client }

func (s *VehiculesService) List(ctx context.Context) ([]models.VehiculeDTO, error) {
	return list[models.VehiculeDTO](ctx, s.c, "vehicles", "/vehicles", nil)
}

func (s *VehiculesService) Get(ctx context.Context, id int64) (models.VehiculeDTO, error) {
	return send[models.VehiculeDTO](ctx, s.c, "vehicles", http.MethodGet, idPath("/vehicles", id), nil)
}

func (s *VehiculesService) Create(ctx context.Context, v models.VehiculeDTO) (models.VehiculeDTO, error) {
	return send[models.VehiculeDTO](ctx, s.c, "vehicles", http.MethodPost, "/vehicles", v)
}

func (s *VehiculesService) Update(ctx context.Context, id int64, v models.VehiculeDTO) (models.VehiculeDTO, error) {
	return send[models.VehiculeDTO](ctx, s.c, "vehicles", http.MethodPut, idPath("/vehicles", id), v)
}

func (s *VehiculesService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.c, "vehicles", idPath("/vehicles", id))
}

func (s *VehiculesService) ByStatus(ctx context.Context, status string) ([]models.VehiculeDTO, error) {
	return list[models.VehiculeDTO](ctx, s.c, "vehicles", "/vehicles/status/"+url.PathEscape(status), nil)
}

func (s *VehiculesService) Import(ctx context.Context, filename string, data []byte) (ImportResult, error) {
	return upload(ctx, s.c, "vehicles", "/vehicles/import", filename, data)
}

// ========================================
// Employees
// ========================================

// EmployesService covers /employees.
type EmployesService struct{ c *Client }

func (s *EmployesService) List(ctx context.Context) ([]models.UtilisateurDTO, error) {
	return list[models.UtilisateurDTO](ctx, s.c, "employees", "/employees", nil)
}

func (s *EmployesService) Get(ctx context.Context, id int64) (models.UtilisateurDTO, error) {
	return send[models.UtilisateurDTO](ctx, s.c, "employees", http.MethodGet, idPath("/employees", id), nil)
}

func (s *EmployesService) Create(ctx context.Context, e models.UtilisateurDTO) (models.UtilisateurDTO, error) {
	return send[models.UtilisateurDTO](ctx, s.c, "employees", http.MethodPost, "/employees", e)
}

func (s *EmployesService) Update(ctx context.Context, id int64, e models.UtilisateurDTO) (models.UtilisateurDTO, error) {
	return send[models.UtilisateurDTO](ctx, s.c, "employees", http.MethodPut, idPath("/employees", id), e)
}

func (s *EmployesService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.c, "employees", idPath("/employees", id))
}

func (s *EmployesService) Search(ctx context.Context, name string) ([]models.UtilisateurDTO, error) {
	return list[models.UtilisateurDTO](ctx, s.c, "employees", "/employees/search", url.Values{"name": []string{name}})
}

// ========================================
// Routes
// ========================================

// TourneesService covers /routes.
type TourneesService struct{ c *Client }

func (s *TourneesService) List(ctx context.Context) ([]models.TourneeDTO, error) {
	return list[models.TourneeDTO](ctx, s.c, "routes", "/routes", nil)
}

func (s *TourneesService) Get(ctx context.Context, id int64) (models.TourneeDTO, error) {
	return send[models.TourneeDTO](ctx, s.c, "routes", http.MethodGet, idPath("/routes", id), nil)
}

func (s *TourneesService) Create(ctx context.Context, t models.TourneeDTO) (models.TourneeDTO, error) {
	return send[models.TourneeDTO](ctx, s.c, "routes", http.MethodPost, "/routes", t)
}

func (s *TourneesService) Update(ctx context.Context, id int64, t models.TourneeDTO) (models.TourneeDTO, error) {
	return send[models.TourneeDTO](ctx, s.c, "routes", http.MethodPut, idPath("/routes", id), t)
}

func (s *TourneesService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.c, "routes", idPath("/routes", id))
}

func (s *TourneesService) Import(ctx context.Context, filename string, data []byte) (ImportResult, error) {
	return upload(ctx, s.c, "routes", "/routes/import", filename, data)
}

// Export downloads the backend's XML export of every route.
func (s *TourneesService) Export(ctx context.Context) ([]byte, error) {
	return s.c.doRaw(ctx, requestConfig{
		resource: "routes",
		method:   http.MethodGet,
		path:     "/routes/export",
		accept:   "application/xml",
	})
}

// ========================================
// Reports
// ========================================

// SignalementsService covers /signalements.
type SignalementsService struct{ c *Client }

func (s *SignalementsService) List(ctx context.Context) ([]models.SignalementDTO, error) {
	return list[models.SignalementDTO](ctx, s.c, "signalements", "/signalements", nil)
}

func (s *SignalementsService) Create(ctx context.Context, r models.SignalementDTO) (models.SignalementDTO, error) {
	return send[models.SignalementDTO](ctx, s.c, "signalements", http.MethodPost, "/signalements", r)
}

func (s *SignalementsService) ByEmploye(ctx context.Context, employeID int64) ([]models.SignalementDTO, error) {
	return list[models.SignalementDTO](ctx, s.c, "signalements", idPath("/signalements/employe", employeID), nil)
}

func (s *SignalementsService) UpdateStatut(ctx context.Context, id int64, statut string) (models.SignalementDTO, error) {
	return send[models.SignalementDTO](ctx, s.c, "signalements", http.MethodPut, idPath("/signalements", id)+"/statut",
		map[string]string{"statut": statut})
}

// ========================================
// Per-role accounts
// ========================================

// UsersService covers /admins, /superviseurs and /techniciens.
type UsersService struct{ c *Client }

func rolePath(role models.UserRole) (string, error) {
	switch role {
	case models.UserAdmin:
		return "/admins", nil
	case models.UserSuperviseur:
		return "/superviseurs", nil
	case models.UserTechnicien:
		return "/techniciens", nil
	}
	return "", fmt.Errorf("no account endpoint for role %q", role)
}

func (s *UsersService) List(ctx context.Context, role models.UserRole) ([]models.UtilisateurDTO, error) {
	path, err := rolePath(role)
	if err != nil {
		return nil, err
	}
	return list[models.UtilisateurDTO](ctx, s.c, "users", path, nil)
}

func (s *UsersService) Create(ctx context.Context, role models.UserRole, u models.UtilisateurDTO) (models.UtilisateurDTO, error) {
	path, err := rolePath(role)
	if err != nil {
		return models.UtilisateurDTO{}, err
	}
	return send[models.UtilisateurDTO](ctx, s.c, "users", http.MethodPost, path, u)
}

func (s *UsersService) Update(ctx context.Context, role models.UserRole, id int64, u models.UtilisateurDTO) (models.UtilisateurDTO, error) {
	path, err := rolePath(role)
	if err != nil {
		return models.UtilisateurDTO{}, err
	}
	return send[models.UtilisateurDTO](ctx, s.c, "users", http.MethodPut, idPath(path, id), u)
}

func (s *UsersService) Delete(ctx context.Context, role models.UserRole, id int64) error {
	path, err := rolePath(role)
	if err != nil {
		return err
	}
	return remove(ctx, s.c, "users", idPath(path, id))
}

// ========================================
// Auth
// ========================================

// AuthService covers /auth.
type AuthService struct{ c *Client }

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	return send[models.LoginResponse](ctx, s.c, "auth", http.MethodPost, "/auth/login", req)
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (models.UtilisateurDTO, error) {
	return send[models.UtilisateurDTO](ctx, s.c, "auth", http.MethodPost, "/auth/signup", req)
}

// AllUsers lists every account regardless of role.
func (s *AuthService) AllUsers(ctx context.Context) ([]models.UtilisateurDTO, error) {
	return list[models.UtilisateurDTO](ctx, s.c, "auth", "/auth/users", nil)
}

// ========================================
// Technician
// ========================================

// TechnicienService covers /technicien.
type TechnicienService struct{ c *Client }

// Notifications lists technician notifications, optionally unread only.
func (s *TechnicienService) Notifications(ctx context.Context, unreadOnly bool) ([]models.NotificationDTO, error) {
	var q url.Values
	if unreadOnly {
		q = url.Values{"unreadOnly": []string{"true"}}
	}
	return list[models.NotificationDTO](ctx, s.c, "technicien", "/technicien/notifications", q)
}

func (s *TechnicienService) MarkRead(ctx context.Context, id int64) error {
	return s.c.doRequest(ctx, requestConfig{
		resource: "technicien",
		method:   http.MethodPut,
		path:     idPath("/technicien/notifications", id) + "/read",
	}, nil)
}

// UpdateVehiculeStatus changes a vehicle status. Moving to EN_PANNE makes
// the backend raise a technician notification.
func (s *TechnicienService) UpdateVehiculeStatus(ctx context.Context, id int64, status string) (models.VehiculeDTO, error) {
	return send[models.VehiculeDTO](ctx, s.c, "technicien", http.MethodPut, idPath("/technicien/vehicules", id)+"/status",
		map[string]string{"status": status})
}
