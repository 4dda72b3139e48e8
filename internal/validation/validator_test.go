// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/urbanwaste/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator should return the same instance")
	}
}

func TestValidateStruct_Vehicule(t *testing.T) {
	tests := []struct {
		name    string
		v       models.Vehicule
		wantMsg string
	}{
		{"valid", models.Vehicule{Type: "BENNE", Capacite: 12}, ""},
		{"missing type", models.Vehicule{Capacite: 12}, "Type de véhicule is required"},
		{"zero capacity", models.Vehicule{Type: "BENNE"}, "Capacité must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.v)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q", tt.wantMsg)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_PointFillRange(t *testing.T) {
	err := ValidateStruct(models.Point{NiveauRemplissage: 101})
	if err == nil {
		t.Fatal("expected error for fill level 101")
	}
	if got := err.Errors()[0].Field(); got != "niveauRemplissage" {
		t.Errorf("Field() = %q, want json name", got)
	}
	if !strings.Contains(err.Error(), "at most 100") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidateStruct_UserMultipleErrors(t *testing.T) {
	err := ValidateStruct(models.User{Mail: "not-an-email"})
	if err == nil {
		t.Fatal("expected errors")
	}
	if n := len(err.Errors()); n != 3 {
		t.Fatalf("len(Errors()) = %d, want 3 (%v)", n, err)
	}
	details := err.Details()
	if details[0]["tag"] != "email" {
		t.Errorf("first tag = %q, want email", details[0]["tag"])
	}
}

func TestFail(t *testing.T) {
	err := Fail("nom", "required", "Nom and prenom are required")
	if err.Error() != "Nom and prenom are required" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Errors()[0].Tag() != "required" {
		t.Errorf("Tag() = %q", err.Errors()[0].Tag())
	}
}

func TestTranslateError_Units(t *testing.T) {
	type draft struct {
		Code  string `json:"code" validate:"min=3"`
		Seats int    `json:"seats" validate:"max=2"`
		Kind  string `json:"kind" validate:"oneof=A B"`
	}
	err := ValidateStruct(draft{Code: "x", Seats: 5, Kind: "C"})
	if err == nil {
		t.Fatal("expected errors")
	}
	want := []string{
		"code must be at least 3 characters",
		"seats must be at most 2",
		"kind must be one of: A B",
	}
	got := err.Errors()
	if len(got) != len(want) {
		t.Fatalf("len(Errors()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Error() != want[i] {
			t.Errorf("message %d = %q, want %q", i, got[i].Error(), want[i])
		}
	}
}
