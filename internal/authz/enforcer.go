// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package authz decides which account role may call which gateway route.
//
// Decisions come from a Casbin RBAC model matched on (role, path, action)
// where the action is derived from the HTTP method. The model and a default
// policy are embedded; a policy file can replace the default. Every account
// role inherits "authenticated", which inherits "anonymous", the citizen
// view.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Policy actions.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// EnforcerConfig points at replacement model or policy files. Empty paths
// use the embedded ones.
type EnforcerConfig struct {
	ModelPath  string
	PolicyPath string
}

// Enforcer is safe for concurrent use.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads the model and policy. A configured path that does not
// exist is an error; it never falls back to the embedded file.
func NewEnforcer(cfg *EnforcerConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = &EnforcerConfig{}
	}

	m, err := loadModel(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	e, err := newSynced(m, cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return &Enforcer{enforcer: e}, nil
}

func loadModel(path string) (model.Model, error) {
	if path == "" {
		return model.NewModelFromString(embeddedModel)
	}
	if err := mustExist("model", path); err != nil {
		return nil, err
	}
	return model.NewModelFromFile(path)
}

func newSynced(m model.Model, policyPath string) (*casbin.SyncedEnforcer, error) {
	if policyPath != "" {
		if err := mustExist("policy", policyPath); err != nil {
			return nil, err
		}
		return casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(policyPath))
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	if err := loadEmbeddedPolicy(e, embeddedPolicy); err != nil {
		return nil, err
	}
	return e, nil
}

func mustExist(kind, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("casbin %s %s: %w", kind, path, err)
	}
	return nil
}

// loadEmbeddedPolicy adds the p and g lines of a policy CSV. Blank lines
// and # comments are skipped.
func loadEmbeddedPolicy(e *casbin.SyncedEnforcer, csv string) error {
	for _, raw := range strings.Split(csv, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Split(line, ",")
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}

		var err error
		switch {
		case fields[0] == "p" && len(fields) == 4:
			_, err = e.AddPolicy(fields[1], fields[2], fields[3])
		case fields[0] == "g" && len(fields) == 3:
			_, err = e.AddGroupingPolicy(fields[1], fields[2])
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
		if err != nil {
			return fmt.Errorf("policy line %q: %w", line, err)
		}
	}
	return nil
}

// Enforce reports whether role may perform action on path.
func (e *Enforcer) Enforce(role, path, action string) (bool, error) {
	ok, err := e.enforcer.Enforce(role, path, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return ok, nil
}

// RolesFor lists every role that role inherits, directly or through
// another role.
func (e *Enforcer) RolesFor(role string) ([]string, error) {
	return e.enforcer.GetImplicitRolesForUser(role)
}
