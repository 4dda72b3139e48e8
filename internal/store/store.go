// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/urbanwaste/internal/client"
	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/mapper"
	"github.com/tomtom215/urbanwaste/internal/metrics"
	"github.com/tomtom215/urbanwaste/internal/models"
	"github.com/tomtom215/urbanwaste/internal/planner"
	"github.com/tomtom215/urbanwaste/internal/xmlcodec"
)

// Sentinel errors. Check with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrMissingVehicle    = errors.New("route vehicle not found locally")
	ErrMissingEmployee   = errors.New("route employee not found locally")
	ErrUnknownEntity     = errors.New("unknown entity")
)

// Entity names used in Change events, metrics and logs.
const (
	EntityPoints            = "points"
	EntityVehicules         = "vehicules"
	EntityEmployes          = "employes"
	EntityTournees          = "tournees"
	EntitySignalements      = "signalements"
	EntityUsers             = "users"
	EntityNotifications     = "notifications"
	EntityTechNotifications = "tech_notifications"
	EntitySession           = "session"
)

// Action names used in Change events.
const (
	ActionFetch    = "fetch"
	ActionAdd      = "add"
	ActionUpdate   = "update"
	ActionRemove   = "remove"
	ActionImport   = "import"
	ActionStatus   = "status"
	ActionAssign   = "assign"
	ActionOptimize = "optimize"
	ActionRead     = "read"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionQuery    = "query"
)

// Change describes one state mutation. Error is set when the action failed
// and the store's Error field changed.
type Change struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// State is a point-in-time copy of everything the store holds.
type State struct {
	Points            []models.Point                    `json:"points"`
	Vehicules         []models.Vehicule                 `json:"vehicules"`
	Employes          []models.Employe                  `json:"employes"`
	Tournees          []models.Tournee                  `json:"tournees"`
	Signalements      []models.Signalement              `json:"signalements"`
	Users             map[models.UserRole][]models.User `json:"users"`
	Notifications     []models.Notification             `json:"notifications"`
	TechNotifications []models.TechNotification         `json:"techNotifications"`
	Session           *models.Session                   `json:"session,omitempty"`
	IsLoading         bool                              `json:"isLoading"`
	Error             string                            `json:"error,omitempty"`
}

// Store is the single client-side cache of the backend.
//
// All state sits behind one RWMutex that is never held across a network
// call, so concurrent actions race at the network level and the last
// response to arrive wins. IsLoading is true while at least one action is
// in flight.
type Store struct {
	api      Backend
	mapper   *mapper.Mapper
	sessions SessionStore
	params   planner.Params
	critical int
	now      func() time.Time

	mu       sync.RWMutex
	st       State
	inflight int

	subMu     sync.RWMutex
	listeners map[int]func(Change)
	nextSub   int
}

// Option customises a Store.
type Option func(*Store)

// WithMapper replaces the default mapper.
func WithMapper(m *mapper.Mapper) Option {
	return func(s *Store) { s.mapper = m }
}

// WithSessionStore enables session persistence.
func WithSessionStore(ss SessionStore) Option {
	return func(s *Store) { s.sessions = ss }
}

// WithPlanner sets the optimization parameters and critical threshold.
func WithPlanner(cfg config.PlannerConfig) Option {
	return func(s *Store) {
		s.params = planner.ParamsFromConfig(cfg)
		if cfg.Threshold > 0 {
			s.critical = cfg.Threshold
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store backed by api.
func New(api Backend, opts ...Option) *Store {
	s := &Store{
		api:       api,
		mapper:    mapper.New(config.MappingConfig{}),
		params:    planner.DefaultParams(),
		critical:  92,
		now:       time.Now,
		listeners: make(map[int]func(Change)),
	}
	s.st = emptyState()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyState() State {
	return State{
		Points:            []models.Point{},
		Vehicules:         []models.Vehicule{},
		Employes:          []models.Employe{},
		Tournees:          []models.Tournee{},
		Signalements:      []models.Signalement{},
		Users:             map[models.UserRole][]models.User{},
		Notifications:     []models.Notification{},
		TechNotifications: []models.TechNotification{},
	}
}

// ========================================
// Subscriptions
// ========================================

// Subscribe registers fn to be called after every state change. fn runs on
// the goroutine of the action that caused the change and must not block.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.listeners, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.subMu.RLock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()
	for _, fn := range fns {
		fn(c)
	}
}

// ========================================
// Readers
// ========================================

func (s *Store) Points() []models.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.st.Points)
}

func (s *Store) Vehicules() []models.Vehicule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.st.Vehicules)
}

func (s *Store) Employes() []models.Employe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.st.Employes)
}

func (s *Store) Tournees() []models.Tournee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTournees(s.st.Tournees)
}

func (s *Store) Signalements() []models.Signalement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.st.Signalements)
}

func (s *Store) Users(role models.UserRole) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.st.Users[role])
}

func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.st.Notifications)
}

func (s *Store) TechNotifications() []models.TechNotification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.st.TechNotifications)
}

// Session returns the logged-in session, or nil.
func (s *Store) Session() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.st.Session == nil {
		return nil
	}
	sess := *s.st.Session
	return &sess
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Error returns the message of the last failed action, or "".
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Error
}

// ClearError resets the error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.st.Error = ""
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := State{
		Points:            clone(s.st.Points),
		Vehicules:         clone(s.st.Vehicules),
		Employes:          clone(s.st.Employes),
		Tournees:          cloneTournees(s.st.Tournees),
		Signalements:      clone(s.st.Signalements),
		Users:             make(map[models.UserRole][]models.User, len(s.st.Users)),
		Notifications:     clone(s.st.Notifications),
		TechNotifications: clone(s.st.TechNotifications),
		IsLoading:         s.inflight > 0,
		Error:             s.st.Error,
	}
	for role, users := range s.st.Users {
		out.Users[role] = clone(users)
	}
	if s.st.Session != nil {
		sess := *s.st.Session
		out.Session = &sess
	}
	return out
}

func (s *Store) refs() mapper.Refs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mapper.Refs{
		Vehicules: clone(s.st.Vehicules),
		Employes:  clone(s.st.Employes),
		Points:    clone(s.st.Points),
	}
}

// ========================================
// Action lifecycle
// ========================================

// begin marks an action in flight and clears the previous error.
func (s *Store) begin() {
	s.mu.Lock()
	s.inflight++
	s.st.Error = ""
	s.mu.Unlock()
}

// settle ends a successful action, applying fn to the state.
func (s *Store) settle(c Change, fn func(st *State)) {
	s.mu.Lock()
	if s.inflight > 0 {
		s.inflight--
	}
	if fn != nil {
		fn(&s.st)
	}
	s.recordCounts(c.Entity)
	s.mu.Unlock()
	if fn != nil {
		s.notify(c)
	}
}

// mutate applies fn without ending the action.
func (s *Store) mutate(c Change, fn func(st *State)) {
	s.mu.Lock()
	fn(&s.st)
	s.recordCounts(c.Entity)
	s.mu.Unlock()
	s.notify(c)
}

// fail ends an action with err. The stored message is the server's error
// text when there is one, otherwise fallback. rollback, when set, runs
// under the same lock.
func (s *Store) fail(ctx context.Context, c Change, err error, fallback string, rollback func(st *State)) error {
	msg := errorMessage(err, fallback)

	s.mu.Lock()
	if s.inflight > 0 {
		s.inflight--
	}
	s.st.Error = msg
	if rollback != nil {
		rollback(&s.st)
	}
	s.recordCounts(c.Entity)
	s.mu.Unlock()

	metrics.RecordStoreError(c.Entity, c.Action)
	logging.Ctx(ctx).Warn().
		Err(err).
		Str("entity", c.Entity).
		Str("action", c.Action).
		Str("id", c.ID).
		Msg(msg)

	c.Error = msg
	s.notify(c)
	return err
}

// errorMessage picks the message stored in Error.
func errorMessage(err error, fallback string) string {
	var nf *notFoundError
	switch {
	case errors.As(err, &nf):
		return nf.label + " not found"
	case errors.Is(err, xmlcodec.ErrImportFailed):
		return fallback
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) || errors.Is(err, client.ErrCircuitOpen) {
		return client.Message(err, fallback)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// recordCounts must be called with mu held.
func (s *Store) recordCounts(entity string) {
	switch entity {
	case EntityPoints:
		metrics.SetEntityCount(entity, len(s.st.Points))
	case EntityVehicules:
		metrics.SetEntityCount(entity, len(s.st.Vehicules))
	case EntityEmployes:
		metrics.SetEntityCount(entity, len(s.st.Employes))
	case EntityTournees:
		metrics.SetEntityCount(entity, len(s.st.Tournees))
	case EntitySignalements:
		metrics.SetEntityCount(entity, len(s.st.Signalements))
	case EntityNotifications:
		metrics.SetEntityCount(entity, len(s.st.Notifications))
	case EntityTechNotifications:
		metrics.SetEntityCount(entity, len(s.st.TechNotifications))
	}
}

// notFoundError wraps ErrNotFound with the entity label shown to users.
type notFoundError struct {
	label string
	id    string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.label, e.id)
}

func (e *notFoundError) Unwrap() error { return ErrNotFound }

func notFound(label, id string) error {
	return &notFoundError{label: label, id: id}
}

// ========================================
// Slice helpers
// ========================================

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneTournees(in []models.Tournee) []models.Tournee {
	out := make([]models.Tournee, len(in))
	for i, t := range in {
		t.EmployeIDs = append([]string{}, t.EmployeIDs...)
		t.PointsCollecteIDs = append([]string{}, t.PointsCollecteIDs...)
		out[i] = t
	}
	return out
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i := range items {
		if match(items[i]) {
			return i
		}
	}
	return -1
}

func replaceAt[T any](items []T, i int, v T) []T {
	out := clone(items)
	out[i] = v
	return out
}

func removeWhere[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}
