// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestTourneeStatut_CanTransition(t *testing.T) {
	tests := []struct {
		from, to TourneeStatut
		want     bool
	}{
		{TourneePlanifiee, TourneeEnCours, true},
		{TourneeEnCours, TourneeTerminee, true},
		{TourneePlanifiee, TourneeTerminee, true},
		{TourneeEnCours, TourneePlanifiee, false},
		{TourneeTerminee, TourneeEnCours, false},
		{TourneeTerminee, TourneeAnnulee, false},
		{TourneePlanifiee, TourneeAnnulee, true},
		{TourneeEnCours, TourneeRetardee, true},
		{TourneeRetardee, TourneeEnCours, true},
		{TourneeRetardee, TourneePlanifiee, false},
		{TourneeAnnulee, TourneePlanifiee, false},
		{TourneePlanifiee, TourneePlanifiee, false},
		{TourneePlanifiee, "BOGUS", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointPatch_OnlyTouchesSetFields(t *testing.T) {
	p := Point{
		ID:                7,
		Localisation:      "Rue de la Paix",
		NiveauRemplissage: 83,
		EtatConteneur:     PointActif,
		Capacite:          Int(240),
		Modele:            "C240",
	}
	got := PointPatch{NiveauRemplissage: Int(0)}.Apply(p)

	if got.NiveauRemplissage != 0 {
		t.Errorf("NiveauRemplissage = %d, want 0", got.NiveauRemplissage)
	}
	got.NiveauRemplissage = p.NiveauRemplissage
	if got.Localisation != p.Localisation || got.Modele != p.Modele || *got.Capacite != 240 || got.EtatConteneur != p.EtatConteneur {
		t.Errorf("unexpected change: %+v", got)
	}
}

func TestVehiculePatch_StatutSetsEtat(t *testing.T) {
	v := Vehicule{Statut: VehiculeDisponible, Etat: VehiculeDisponible}
	s := VehiculeEnPanne
	got := VehiculePatch{Statut: &s}.Apply(v)
	if got.Statut != VehiculeEnPanne || got.Etat != VehiculeEnPanne {
		t.Errorf("Statut=%s Etat=%s, want EN_PANNE for both", got.Statut, got.Etat)
	}
}

func TestTourneePatch_SliceSemantics(t *testing.T) {
	tr := Tournee{EmployeIDs: []string{"1", "2"}}
	if got := (TourneePatch{}).Apply(tr); len(got.EmployeIDs) != 2 {
		t.Errorf("nil slice should leave list unchanged, got %v", got.EmployeIDs)
	}
	if got := (TourneePatch{EmployeIDs: []string{}}).Apply(tr); len(got.EmployeIDs) != 0 {
		t.Errorf("empty slice should clear list, got %v", got.EmployeIDs)
	}
}

func TestEmploye_FullName(t *testing.T) {
	tests := []struct {
		e    Employe
		want string
	}{
		{Employe{Nom: "Martin", Prenom: "Lea"}, "Lea Martin"},
		{Employe{Nom: "Martin"}, "Martin"},
		{Employe{Prenom: "Lea"}, "Lea"},
	}
	for _, tt := range tests {
		if got := tt.e.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}

func TestFlexTime_Unmarshal(t *testing.T) {
	want := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"epoch millis", `1773477000000`, want},
		{"rfc3339", `"2026-03-14T08:30:00Z"`, want},
		{"jackson", `"2026-03-14T08:30:00.000+0000"`, want},
		{"local", `"2026-03-14T08:30:00"`, want},
		{"date only", `"2026-03-14"`, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty", `""`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexTime
			if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if !f.Equal(tt.want) {
				t.Errorf("got %v, want %v", f.Time, tt.want)
			}
		})
	}
}

func TestFlexTime_RejectsGarbage(t *testing.T) {
	var f FlexTime
	if err := json.Unmarshal([]byte(`"yesterday"`), &f); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestFlexTime_Marshal(t *testing.T) {
	b, err := json.Marshal(struct {
		D *FlexTime `json:"d"`
	}{D: NewFlexTime(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"d":"2026-01-02T03:04:05Z"}` {
		t.Errorf("Marshal = %s", b)
	}
	var nilTime *FlexTime
	if nilTime.DateString() != "" {
		t.Error("nil DateString should be empty")
	}
}
