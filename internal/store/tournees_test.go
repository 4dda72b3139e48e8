// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/urbanwaste/internal/metrics"
	"github.com/tomtom215/urbanwaste/internal/models"
)

// seedFleet registers vehicle 10, driver 20 and collector 21.
func seedFleet(f *fakeAPI) {
	f.seedVehicle(models.VehiculeDTO{ID: 10, Immatriculation: "AB-123-CD", TypeVehicule: "Benne", Capacite: 12, Statut: "DISPONIBLE"})
	f.seedEmployee(models.UtilisateurDTO{ID: 20, Nom: "Martin", Prenom: "Luc", Role: "CHAUFFEUR", Telephone: 612345678})
	f.seedEmployee(models.UtilisateurDTO{ID: 21, Nom: "Durand", Prenom: "Zoe", Role: "EMPLOYE", Telephone: 698765432})
}

func loadAll(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.FetchPoints(ctx); err != nil {
		t.Fatalf("FetchPoints: %v", err)
	}
	if _, err := s.FetchVehicules(ctx); err != nil {
		t.Fatalf("FetchVehicules: %v", err)
	}
	if _, err := s.FetchEmployes(ctx); err != nil {
		t.Fatalf("FetchEmployes: %v", err)
	}
	if _, err := s.FetchTournees(ctx); err != nil {
		t.Fatalf("FetchTournees: %v", err)
	}
}

func draftRoute() models.Tournee {
	return models.Tournee{
		Date:              "2026-03-14",
		HeureDebut:        "06:15",
		VehiculeID:        "10",
		EmployeIDs:        []string{"20"},
		PointsCollecteIDs: []string{"1"},
		DistanceKm:        13.1,
	}
}

func TestAddTournee_ReplacesTemporaryRecord(t *testing.T) {
	s, f := newTestStore(t)
	seedFleet(f)
	seedPoints(f)
	loadAll(t, s)

	var mu sync.Mutex
	var seen []string
	s.Subscribe(func(c Change) {
		if c.Entity != EntityTournees {
			return
		}
		mu.Lock()
		for _, r := range s.Tournees() {
			seen = append(seen, r.ID)
		}
		mu.Unlock()
	})

	draft := draftRoute()
	draft.TrajetOptimise = true
	created, err := s.AddTournee(context.Background(), draft)
	if err != nil {
		t.Fatalf("AddTournee: %v", err)
	}
	if IsTempID(created.ID) || created.Statut != models.TourneePlanifiee || !created.TrajetOptimise {
		t.Errorf("created = %+v", created)
	}

	got := s.Tournees()
	if len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("tournees = %+v", got)
	}

	mu.Lock()
	defer mu.Unlock()
	wantTemp := TempIDPrefix + strconv.FormatInt(fixedNow.UnixMilli(), 10)
	if len(seen) == 0 || seen[0] != wantTemp {
		t.Errorf("observed ids = %v, want %s first", seen, wantTemp)
	}

	var sent models.TourneeDTO
	if err := json.Unmarshal(f.lastBody("POST /routes"), &sent); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if sent.ID != 0 || sent.Vehicle == nil || sent.Vehicle.ID != 10 || sent.Employe == nil || sent.Employe.ID != 20 {
		t.Errorf("payload = %+v", sent)
	}
	if len(sent.PointsCollecte) != 1 || sent.PointsCollecte[0].ID != 1 {
		t.Errorf("payload points = %+v", sent.PointsCollecte)
	}
}

func TestAddTournee_RollbackOnRejection(t *testing.T) {
	s, f := newTestStore(t)
	seedFleet(f)
	loadAll(t, s)
	f.fail("POST /routes", http.StatusInternalServerError, `{"error":"Vehicle already booked"}`, 0)

	var mu sync.Mutex
	sawTemp := false
	s.Subscribe(func(Change) {
		for _, r := range s.Tournees() {
			if IsTempID(r.ID) {
				mu.Lock()
				sawTemp = true
				mu.Unlock()
			}
		}
	})

	if _, err := s.AddTournee(context.Background(), draftRoute()); err == nil {
		t.Fatal("expected an error")
	}
	mu.Lock()
	if !sawTemp {
		t.Error("temporary record was never visible")
	}
	mu.Unlock()
	if n := len(s.Tournees()); n != 0 {
		t.Errorf("tournees = %d after rollback, want 0", n)
	}
	if got := s.Error(); got != "Vehicle already booked" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAddTournee_RequiresKnownReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Tournee)
		want   error
	}{
		{"unknown vehicle", func(r *models.Tournee) { r.VehiculeID = "77" }, ErrMissingVehicle},
		{"no vehicle", func(r *models.Tournee) { r.VehiculeID = "" }, ErrMissingVehicle},
		{"unknown employee", func(r *models.Tournee) { r.EmployeIDs = []string{"99"} }, ErrMissingEmployee},
		{"no employee", func(r *models.Tournee) { r.EmployeIDs = nil }, ErrMissingEmployee},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, f := newTestStore(t)
			seedFleet(f)
			loadAll(t, s)
			draft := draftRoute()
			tt.mutate(&draft)

			_, err := s.AddTournee(context.Background(), draft)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if f.callCount("POST /routes") != 0 {
				t.Error("request sent")
			}
			if len(s.Tournees()) != 0 {
				t.Error("temporary record left behind")
			}
		})
	}
}

func seedRoute(f *fakeAPI, statut models.TourneeStatut) {
	f.seedRoute(models.TourneeDTO{
		ID:             7,
		DatePlanifiee:  models.NewFlexTime(fixedNow),
		Statut:         string(statut),
		Employe:        &models.RefDTO{ID: 21},
		Vehicle:        &models.RefDTO{ID: 10},
		PointsCollecte: []models.RefDTO{{ID: 2}, {ID: 1}},
		HeureDebut:     "06:45",
		DistanceKm:     models.Float64(17.2),
	})
}

func TestUpdateTourneeStatut(t *testing.T) {
	tests := []struct {
		from models.TourneeStatut
		to   models.TourneeStatut
		ok   bool
	}{
		{models.TourneePlanifiee, models.TourneeEnCours, true},
		{models.TourneePlanifiee, models.TourneeTerminee, true},
		{models.TourneeEnCours, models.TourneeRetardee, true},
		{models.TourneeRetardee, models.TourneeEnCours, true},
		{models.TourneeEnCours, models.TourneePlanifiee, false},
		{models.TourneeTerminee, models.TourneeEnCours, false},
		{models.TourneeAnnulee, models.TourneePlanifiee, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"→"+string(tt.to), func(t *testing.T) {
			s, f := newTestStore(t)
			seedFleet(f)
			seedPoints(f)
			seedRoute(f, tt.from)
			loadAll(t, s)

			got, err := s.UpdateTourneeStatut(context.Background(), "7", tt.to)
			if !tt.ok {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("err = %v, want ErrInvalidTransition", err)
				}
				if f.callCount("PUT /routes/7") != 0 {
					t.Error("invalid transition reached the backend")
				}
				if s.Tournees()[0].Statut != tt.from {
					t.Error("local status changed")
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateTourneeStatut: %v", err)
			}
			if got.Statut != tt.to || s.Tournees()[0].Statut != tt.to {
				t.Errorf("status = %q, want %q", got.Statut, tt.to)
			}

			var sent models.TourneeDTO
			if err := json.Unmarshal(f.lastBody("PUT /routes/7"), &sent); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if sent.ID != 7 || sent.Vehicle == nil || sent.Employe == nil || len(sent.PointsCollecte) != 2 {
				t.Errorf("payload is not the full route: %+v", sent)
			}
		})
	}
}

func TestAssignAgent(t *testing.T) {
	s, f := newTestStore(t)
	seedFleet(f)
	seedPoints(f)
	seedRoute(f, models.TourneePlanifiee)
	loadAll(t, s)
	ctx := context.Background()

	got, err := s.AssignAgent(ctx, "7", "20")
	if err != nil {
		t.Fatalf("AssignAgent: %v", err)
	}
	if !reflect.DeepEqual(got.EmployeIDs, []string{"20"}) {
		t.Errorf("employees = %v", got.EmployeIDs)
	}
	var sent models.TourneeDTO
	if err := json.Unmarshal(f.lastBody("PUT /routes/7"), &sent); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if sent.Employe == nil || sent.Employe.ID != 20 || sent.Vehicle == nil || len(sent.PointsCollecte) != 2 {
		t.Errorf("payload = %+v", sent)
	}

	if _, err := s.AssignAgent(ctx, "7", "99"); !errors.Is(err, ErrMissingEmployee) {
		t.Errorf("err = %v, want ErrMissingEmployee", err)
	}
	if _, err := s.AssignAgent(ctx, "8", "20"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchTournees_KeepsOptimisedFlag(t *testing.T) {
	s, f := newTestStore(t)
	seedFleet(f)
	loadAll(t, s)
	draft := draftRoute()
	draft.TrajetOptimise = true
	created, err := s.AddTournee(context.Background(), draft)
	if err != nil {
		t.Fatalf("AddTournee: %v", err)
	}
	list, err := s.FetchTournees(context.Background())
	if err != nil {
		t.Fatalf("FetchTournees: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID || !list[0].TrajetOptimise {
		t.Errorf("tournees = %+v", list)
	}
}

func TestRemoveTournee_UnknownIDStillCallsBackend(t *testing.T) {
	s, f := newTestStore(t)
	seedFleet(f)
	seedRoute(f, models.TourneePlanifiee)
	loadAll(t, s)
	before := s.Tournees()

	err := s.RemoveTournee(context.Background(), "55")
	if err == nil {
		t.Fatal("expected the backend failure to be reported")
	}
	if f.callCount("DELETE /routes/55") != 1 {
		t.Error("DELETE /routes/55 not sent")
	}
	if s.Error() == "" {
		t.Error("Error() not set")
	}
	if !reflect.DeepEqual(s.Tournees(), before) {
		t.Error("local routes changed")
	}

	if err := s.RemoveTournee(context.Background(), "7"); err != nil {
		t.Fatalf("RemoveTournee: %v", err)
	}
	if len(s.Tournees()) != 0 {
		t.Error("route not removed locally")
	}
}

func TestOptimizeRoutes_SingleVehicle(t *testing.T) {
	s, f := newTestStore(t)
	seedFleet(f)
	for i, fill := range []float64{95, 60, 92, 40, 97} {
		f.seedPoint(models.PointDTO{ID: int64(i + 1), Localisation: "P" + strconv.Itoa(i+1), NiveauRemplissage: fill})
	}
	loadAll(t, s)
	planned := testutil.ToFloat64(metrics.RoutesPlanned)

	res, err := s.OptimizeRoutes(context.Background(), OptimizeRequest{Threshold: 40})
	if err != nil {
		t.Fatalf("OptimizeRoutes: %v", err)
	}
	if res.Critical != 5 || res.Planned != 1 || len(res.Created) != 1 {
		t.Fatalf("result = %+v", res)
	}
	route := res.Created[0]
	if want := []string{"5", "1", "3", "2", "4"}; !reflect.DeepEqual(route.PointsCollecteIDs, want) {
		t.Errorf("points = %v, want %v", route.PointsCollecteIDs, want)
	}
	if route.DistanceKm != 29.5 || route.VehiculeID != "10" || route.Date != "2026-03-14" || route.HeureDebut != "06:15" {
		t.Errorf("route = %+v", route)
	}
	if !route.TrajetOptimise || IsTempID(route.ID) {
		t.Errorf("route = %+v", route)
	}
	if res.Savings.BeforeKm != 47.5 || res.Savings.Km != 18 {
		t.Errorf("savings = %+v", res.Savings)
	}
	if got := testutil.ToFloat64(metrics.RoutesPlanned) - planned; got != 1 {
		t.Errorf("routes planned delta = %v, want 1", got)
	}
}

func TestOptimizeRoutes_RefetchesRoutes(t *testing.T) {
	s, f := newTestStore(t)
	seedFleet(f)
	f.seedPoint(models.PointDTO{ID: 1, Localisation: "P1", NiveauRemplissage: 95})
	loadAll(t, s)
	before := f.callCount("GET /routes")

	res, err := s.OptimizeRoutes(context.Background(), OptimizeRequest{Threshold: 80})
	if err != nil {
		t.Fatalf("OptimizeRoutes: %v", err)
	}
	if got := f.callCount("GET /routes") - before; got != 1 {
		t.Errorf("route fetches after optimization = %d, want 1", got)
	}
	local := s.Tournees()
	if len(local) != len(res.Created) {
		t.Fatalf("local routes = %d, want %d", len(local), len(res.Created))
	}
	for _, r := range local {
		if !r.TrajetOptimise || IsTempID(r.ID) {
			t.Errorf("route after refetch = %+v", r)
		}
	}
}

func TestOptimizeRoutes_DefaultThreshold(t *testing.T) {
	s, f := newTestStore(t)
	seedFleet(f)
	for i, fill := range []float64{95, 60, 92, 40, 97} {
		f.seedPoint(models.PointDTO{ID: int64(i + 1), NiveauRemplissage: fill})
	}
	loadAll(t, s)

	res, err := s.OptimizeRoutes(context.Background(), OptimizeRequest{})
	if err != nil {
		t.Fatalf("OptimizeRoutes: %v", err)
	}
	if res.Critical != 3 || len(res.Created) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if want := []string{"5", "1", "3"}; !reflect.DeepEqual(res.Created[0].PointsCollecteIDs, want) {
		t.Errorf("points = %v, want %v", res.Created[0].PointsCollecteIDs, want)
	}
}

func TestOptimizeRoutes_StopsAtFirstFailure(t *testing.T) {
	s, f := newTestStore(t)
	seedFleet(f)
	f.seedVehicle(models.VehiculeDTO{ID: 11, Immatriculation: "EF-456-GH", TypeVehicule: "Benne", Capacite: 10, Statut: "DISPONIBLE"})
	for i := 1; i <= 12; i++ {
		f.seedPoint(models.PointDTO{ID: int64(i), NiveauRemplissage: 99})
	}
	loadAll(t, s)
	f.fail("POST /routes", http.StatusInternalServerError, `{"error":"planning locked"}`, 1)

	res, err := s.OptimizeRoutes(context.Background(), OptimizeRequest{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if res.Planned != 2 || len(res.Created) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if got := s.Tournees(); len(got) != 1 || got[0].ID != res.Created[0].ID {
		t.Errorf("tournees = %+v", got)
	}
	if f.routeCount() != 1 {
		t.Errorf("backend routes = %d, want 1", f.routeCount())
	}
	if s.Error() != "planning locked" {
		t.Errorf("Error() = %q", s.Error())
	}
}
