// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/tomtom215/urbanwaste/internal/client"
	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/store"
)

// fakeBackend is an in-memory stand-in for the backend services. Each
// service embeds its store interface so unused methods panic if called.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int64
	err    error // returned by every call when set

	points    map[int64]models.PointDTO
	vehicules map[int64]models.VehiculeDTO
	employes  map[int64]models.UtilisateurDTO
	tournees  map[int64]models.TourneeDTO
	imported  []string
	token     string
	login     models.LoginResponse
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:    10,
		points:    map[int64]models.PointDTO{},
		vehicules: map[int64]models.VehiculeDTO{},
		employes:  map[int64]models.UtilisateurDTO{},
		tournees:  map[int64]models.TourneeDTO{},
		login: models.LoginResponse{
			ID: 7, Nom: "Martin", Prenom: "Claire", Role: "superviseur", Token: "backend-token",
		},
	}
}

func (f *fakeBackend) backend() store.Backend {
	return store.Backend{
		Points:       &fakePoints{f: f},
		Vehicules:    &fakeVehicules{f: f},
		Employes:     &fakeEmployes{f: f},
		Tournees:     &fakeTournees{f: f},
		Signalements: &fakeSignalements{},
		Users:        &fakeUsers{},
		Auth:         &fakeAuth{f: f},
		Technicien:   &fakeTechnicien{},
		Token:        f,
	}
}

func (f *fakeBackend) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeBackend) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeBackend) id() int64 {
	f.nextID++
	return f.nextID
}

func notFoundErr() error {
	return &client.APIError{StatusCode: http.StatusNotFound, Message: "Not found"}
}

func sortedValues[T any](m map[int64]T) []T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]T, 0, len(m))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

type fakePoints struct {
	store.PointsAPI
	f *fakeBackend
}

func (p *fakePoints) List(context.Context) ([]models.PointDTO, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if p.f.err != nil {
		return nil, p.f.err
	}
	return sortedValues(p.f.points), nil
}

func (p *fakePoints) Create(_ context.Context, d models.PointDTO) (models.PointDTO, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if p.f.err != nil {
		return models.PointDTO{}, p.f.err
	}
	d.ID = p.f.id()
	p.f.points[d.ID] = d
	return d, nil
}

func (p *fakePoints) Update(_ context.Context, id int64, d models.PointDTO) (models.PointDTO, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if p.f.err != nil {
		return models.PointDTO{}, p.f.err
	}
	if _, ok := p.f.points[id]; !ok {
		return models.PointDTO{}, notFoundErr()
	}
	d.ID = id
	p.f.points[id] = d
	return d, nil
}

func (p *fakePoints) Delete(_ context.Context, id int64) error {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if p.f.err != nil {
		return p.f.err
	}
	delete(p.f.points, id)
	return nil
}

func (p *fakePoints) Critical(_ context.Context, threshold float64) ([]models.PointDTO, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	var out []models.PointDTO
	for _, d := range sortedValues(p.f.points) {
		if d.NiveauRemplissage >= threshold {
			out = append(out, d)
		}
	}
	return out, nil
}

func (p *fakePoints) Stats(context.Context) (models.PointStats, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	return models.PointStats{Total: len(p.f.points), Actifs: len(p.f.points)}, nil
}

func (p *fakePoints) UpdateFillLevel(_ context.Context, id int64, level float64) (models.PointDTO, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	d, ok := p.f.points[id]
	if !ok {
		return models.PointDTO{}, notFoundErr()
	}
	d.NiveauRemplissage = level
	p.f.points[id] = d
	return d, nil
}

func (p *fakePoints) Import(_ context.Context, filename string, _ []byte) (client.ImportResult, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	p.f.imported = append(p.f.imported, filename)
	return client.ImportResult{Message: "ok", Imported: 1, Total: 1}, nil
}

type fakeVehicules struct {
	store.VehiculesAPI
	f *fakeBackend
}

func (v *fakeVehicules) List(context.Context) ([]models.VehiculeDTO, error) {
	v.f.mu.Lock()
	defer v.f.mu.Unlock()
	return sortedValues(v.f.vehicules), nil
}

type fakeEmployes struct {
	store.EmployesAPI
	f *fakeBackend
}

func (e *fakeEmployes) List(context.Context) ([]models.UtilisateurDTO, error) {
	e.f.mu.Lock()
	defer e.f.mu.Unlock()
	return sortedValues(e.f.employes), nil
}

type fakeTournees struct {
	store.TourneesAPI
	f *fakeBackend
}

func (t *fakeTournees) List(context.Context) ([]models.TourneeDTO, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	return sortedValues(t.f.tournees), nil
}

func (t *fakeTournees) Create(_ context.Context, d models.TourneeDTO) (models.TourneeDTO, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	d.ID = t.f.id()
	t.f.tournees[d.ID] = d
	return d, nil
}

func (t *fakeTournees) Update(_ context.Context, id int64, d models.TourneeDTO) (models.TourneeDTO, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	d.ID = id
	t.f.tournees[id] = d
	return d, nil
}

type fakeSignalements struct{ store.SignalementsAPI }

type fakeUsers struct{ store.UsersAPI }

type fakeTechnicien struct{ store.TechnicienAPI }

type fakeAuth struct{ f *fakeBackend }

func (a *fakeAuth) Login(_ context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	if req.Password != "secret" {
		return models.LoginResponse{}, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	return a.f.login, nil
}
