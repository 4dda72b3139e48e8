// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/urbanwaste/internal/client"
	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/models"
)

// failure makes a route answer with status after skip successful calls.
type failure struct {
	status int
	body   string
	skip   int
}

// fakeAPI is an in-memory stand-in for the waste-management backend.
type fakeAPI struct {
	srv *httptest.Server

	mu        sync.Mutex
	nextID    int64
	points    map[int64]models.PointDTO
	vehicles  map[int64]models.VehiculeDTO
	employees map[int64]models.UtilisateurDTO
	routes    map[int64]models.TourneeDTO
	reports   map[int64]models.SignalementDTO
	notes     map[int64]models.NotificationDTO
	admins    map[int64]models.UtilisateurDTO

	failures map[string]*failure
	calls    []string
	bodies   map[string][]byte
	auth     []string

	// block, when set, is waited on before answering GET /points.
	block chan struct{}
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		nextID:    100,
		points:    map[int64]models.PointDTO{},
		vehicles:  map[int64]models.VehiculeDTO{},
		employees: map[int64]models.UtilisateurDTO{},
		routes:    map[int64]models.TourneeDTO{},
		reports:   map[int64]models.SignalementDTO{},
		notes:     map[int64]models.NotificationDTO{},
		admins:    map[int64]models.UtilisateurDTO{},
		failures:  map[string]*failure{},
		bodies:    map[string][]byte{},
	}

	mux := http.NewServeMux()
	register(f, mux, "/points", f.points, func(p *models.PointDTO, id int64) { p.ID = id })
	register(f, mux, "/vehicles", f.vehicles, func(v *models.VehiculeDTO, id int64) { v.ID = id })
	register(f, mux, "/employees", f.employees, func(e *models.UtilisateurDTO, id int64) { e.ID = id })
	register(f, mux, "/routes", f.routes, func(r *models.TourneeDTO, id int64) { r.ID = id })
	register(f, mux, "/signalements", f.reports, func(r *models.SignalementDTO, id int64) { r.ID = id })
	register(f, mux, "/admins", f.admins, func(u *models.UtilisateurDTO, id int64) { u.ID = id })

	mux.HandleFunc("POST /points/import", f.handleImport)
	mux.HandleFunc("POST /vehicles/import", f.handleImport)
	mux.HandleFunc("POST /routes/import", f.handleImport)
	mux.HandleFunc("GET /routes/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, "<routes><route><id>1</id></route></routes>")
	})
	mux.HandleFunc("PATCH /points/{id}/fill-level", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		level, _ := strconv.ParseFloat(r.URL.Query().Get("level"), 64)
		f.mu.Lock()
		p, ok := f.points[id]
		if ok {
			p.NiveauRemplissage = level
			f.points[id] = p
		}
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Point not found"})
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
	mux.HandleFunc("PUT /signalements/{id}/statut", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		rep, ok := f.reports[id]
		if ok {
			rep.Statut = body["statut"]
			f.reports[id] = rep
		}
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Signalement not found"})
			return
		}
		writeJSON(w, http.StatusOK, rep)
	})
	mux.HandleFunc("PUT /technicien/vehicules/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		v := f.vehicles[id]
		v.Statut = body["status"]
		f.vehicles[id] = v
		if v.Statut == string(models.VehiculeEnPanne) {
			f.nextID++
			f.notes[f.nextID] = models.NotificationDTO{ID: f.nextID, Titre: "Panne", Message: v.Immatriculation, RoleCible: "TECHNICIEN", VehiculeID: models.Int64(id)}
		}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, v)
	})
	mux.HandleFunc("GET /technicien/notifications", func(w http.ResponseWriter, r *http.Request) {
		unread := r.URL.Query().Get("unreadOnly") == "true"
		f.mu.Lock()
		list := []models.NotificationDTO{}
		for _, n := range sortedValues(f.notes) {
			if !unread || !n.Lue {
				list = append(list, n)
			}
		}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, list)
	})
	mux.HandleFunc("PUT /technicien/notifications/{id}/read", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		f.mu.Lock()
		n := f.notes[id]
		n.Lue = true
		f.notes[id] = n
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		token := "tok-1"
		if req.Mail != "alice@ville.fr" {
			token = "tok-" + req.Mail
		}
		writeJSON(w, http.StatusOK, models.LoginResponse{ID: 1, Prenom: "Alice", Nom: "Martin", Role: "admin", Token: token})
	})

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		f.mu.Lock()
		f.calls = append(f.calls, key)
		f.bodies[key] = body
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		fl := f.failures[key]
		fail := false
		if fl != nil {
			if fl.skip > 0 {
				fl.skip--
			} else {
				fail = true
			}
		}
		block := f.block
		f.mu.Unlock()

		if fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fl.status)
			_, _ = io.WriteString(w, fl.body)
			return
		}
		if block != nil && key == "GET /points" {
			<-block
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func register[T any](f *fakeAPI, mux *http.ServeMux, base string, items map[int64]T, setID func(*T, int64)) {
	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		list := sortedValues(items)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, list)
	})
	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		f.mu.Lock()
		f.nextID++
		setID(&v, f.nextID)
		items[f.nextID] = v
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, v)
	})
	mux.HandleFunc("PUT "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		f.mu.Lock()
		_, ok := items[id]
		if ok {
			setID(&v, id)
			items[id] = v
		}
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
			return
		}
		writeJSON(w, http.StatusOK, v)
	})
	mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		f.mu.Lock()
		_, ok := items[id]
		delete(items, id)
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully"})
	})
}

func (f *fakeAPI) handleImport(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	_ = file.Close()
	writeJSON(w, http.StatusOK, client.ImportResult{Message: "Import successful", Imported: 1, Total: 1})
}

func (f *fakeAPI) fail(key string, status int, body string, skip int) {
	f.mu.Lock()
	f.failures[key] = &failure{status: status, body: body, skip: skip}
	f.mu.Unlock()
}

func (f *fakeAPI) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) lastBody(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

func (f *fakeAPI) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.auth) == 0 {
		return ""
	}
	return f.auth[len(f.auth)-1]
}

func (f *fakeAPI) seedPoint(p models.PointDTO) {
	f.mu.Lock()
	f.points[p.ID] = p
	f.mu.Unlock()
}

func (f *fakeAPI) seedVehicle(v models.VehiculeDTO) {
	f.mu.Lock()
	f.vehicles[v.ID] = v
	f.mu.Unlock()
}

func (f *fakeAPI) seedEmployee(e models.UtilisateurDTO) {
	f.mu.Lock()
	f.employees[e.ID] = e
	f.mu.Unlock()
}

func (f *fakeAPI) seedRoute(t models.TourneeDTO) {
	f.mu.Lock()
	f.routes[t.ID] = t
	f.mu.Unlock()
}

func (f *fakeAPI) seedNote(n models.NotificationDTO) {
	f.mu.Lock()
	f.notes[n.ID] = n
	f.mu.Unlock()
}

func (f *fakeAPI) routeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.routes)
}

// memorySessions is an in-memory SessionStore.
type memorySessions struct {
	mu      sync.Mutex
	current *models.Session
}

func (m *memorySessions) Load(context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, nil
	}
	s := *m.current
	return &s, nil
}

func (m *memorySessions) Save(_ context.Context, s models.Session) error {
	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	return nil
}

func (m *memorySessions) Clear(context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return nil
}

var fixedNow = time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) (*Store, *fakeAPI) {
	t.Helper()
	f := newFakeAPI(t)
	c := client.New(config.APIConfig{BaseURL: f.srv.URL, Timeout: 5 * time.Second})
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(FromClient(c), opts...), f
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sortedValues[T any](items map[int64]T) []T {
	keys := make([]int64, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, items[k])
	}
	return out
}
