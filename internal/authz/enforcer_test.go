// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package authz

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// =====================================================
// Test Helpers
// =====================================================

func setupEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	enforcer, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return enforcer
}

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	return path
}

// =====================================================
// Embedded Policy
// =====================================================

func TestEnforce_EmbeddedPolicy(t *testing.T) {
	e := setupEnforcer(t)

	tests := []struct {
		role   string
		path   string
		action string
		want   bool
	}{
		// citizen view
		{"anonymous", "/api/v1/points", ActionRead, true},
		{"anonymous", "/api/v1/signalements", ActionWrite, true},
		{"anonymous", "/api/v1/health", ActionRead, true},
		{"anonymous", "/api/v1/auth/login", ActionWrite, true},
		{"anonymous", "/api/v1/points", ActionWrite, false},
		{"anonymous", "/api/v1/signalements", ActionRead, false},
		{"anonymous", "/api/v1/state", ActionRead, false},
		{"anonymous", "/api/v1/tournees/optimize", ActionWrite, false},

		// admin
		{"ADMIN", "/api/v1/employes/4", ActionDelete, true},
		{"ADMIN", "/api/v1/import/employes", ActionWrite, true},
		{"ADMIN", "/api/v1/points", ActionRead, true},

		// supervisor
		{"SUPERVISEUR", "/api/v1/tournees", ActionWrite, true},
		{"SUPERVISEUR", "/api/v1/tournees/optimize", ActionWrite, true},
		{"SUPERVISEUR", "/api/v1/tournees/7/agent", ActionWrite, true},
		{"SUPERVISEUR", "/api/v1/points/3/empty", ActionWrite, true},
		{"SUPERVISEUR", "/api/v1/signalements/s1/statut", ActionWrite, true},
		{"SUPERVISEUR", "/api/v1/export/tournees.xml", ActionRead, true},
		{"SUPERVISEUR", "/api/v1/state", ActionRead, true},
		{"SUPERVISEUR", "/api/v1/vehicules/2", ActionDelete, false},
		{"SUPERVISEUR", "/api/v1/employes", ActionWrite, false},

		// technician
		{"TECHNICIEN", "/api/v1/vehicules", ActionWrite, true},
		{"TECHNICIEN", "/api/v1/vehicules/2", ActionDelete, true},
		{"TECHNICIEN", "/api/v1/technicien/notifications", ActionRead, true},
		{"TECHNICIEN", "/api/v1/tournees", ActionWrite, false},
		{"TECHNICIEN", "/api/v1/points/1", ActionWrite, false},

		// field employee
		{"EMPLOYE", "/api/v1/tournees/7/statut", ActionWrite, true},
		{"EMPLOYE", "/api/v1/signalements/s1/statut", ActionWrite, true},
		{"EMPLOYE", "/api/v1/signalements", ActionRead, true},
		{"EMPLOYE", "/api/v1/tournees/7", ActionWrite, false},
		{"EMPLOYE", "/api/v1/tournees/7/statut/extra", ActionWrite, false},
		{"EMPLOYE", "/api/v1/points/3/empty", ActionWrite, true},
		{"EMPLOYE", "/api/v1/points/3", ActionWrite, false},

		// job roles inherit the employee account
		{"CHAUFFEUR", "/api/v1/tournees/7/statut", ActionWrite, true},
		{"CHAUFFEUR", "/api/v1/points", ActionRead, true},
		{"EBOUEUR", "/api/v1/points", ActionRead, true},
		{"EBOUEUR", "/api/v1/points/3/empty", ActionWrite, true},
		{"EBOUEUR", "/api/v1/vehicules/2", ActionDelete, false},

		{"UNKNOWN", "/api/v1/points", ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.action+" "+tt.path, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.path, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.path, tt.action, got, tt.want)
			}
		})
	}
}

func TestRolesFor(t *testing.T) {
	e := setupEnforcer(t)
	roles, err := e.RolesFor("EMPLOYE")
	if err != nil {
		t.Fatalf("RolesFor() error = %v", err)
	}
	for _, want := range []string{"authenticated", "anonymous"} {
		if !slices.Contains(roles, want) {
			t.Errorf("RolesFor(EMPLOYE) = %v, missing %s", roles, want)
		}
	}
}

// =====================================================
// Custom Policy
// =====================================================

func TestNewEnforcer_PolicyFile(t *testing.T) {
	path := writePolicy(t, "p, EMPLOYE, /api/v1/points, write\n")
	e, err := NewEnforcer(&EnforcerConfig{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	if ok, _ := e.Enforce("EMPLOYE", "/api/v1/points", ActionWrite); !ok {
		t.Error("custom policy should allow EMPLOYE to write points")
	}
	if ok, _ := e.Enforce("ADMIN", "/api/v1/points", ActionRead); ok {
		t.Error("custom policy replaces the embedded one")
	}
}

func TestNewEnforcer_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	tests := []struct {
		name string
		cfg  *EnforcerConfig
	}{
		{"missing policy", &EnforcerConfig{PolicyPath: missing}},
		{"missing model", &EnforcerConfig{ModelPath: missing}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEnforcer(tt.cfg); err == nil {
				t.Error("NewEnforcer() expected error, got nil")
			}
		})
	}
}

func TestLoadEmbeddedPolicy_Malformed(t *testing.T) {
	e := setupEnforcer(t)
	if err := loadEmbeddedPolicy(e.enforcer, "p, only-two\n"); err == nil {
		t.Error("loadEmbeddedPolicy() expected error, got nil")
	}
}
