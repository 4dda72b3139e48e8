// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/urbanwaste/internal/api"
	"github.com/tomtom215/urbanwaste/internal/auth"
	"github.com/tomtom215/urbanwaste/internal/authz"
	"github.com/tomtom215/urbanwaste/internal/client"
	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/events"
	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/mapper"
	"github.com/tomtom215/urbanwaste/internal/session"
	"github.com/tomtom215/urbanwaste/internal/store"
	"github.com/tomtom215/urbanwaste/internal/supervisor"
	"github.com/tomtom215/urbanwaste/internal/supervisor/services"
	ws "github.com/tomtom215/urbanwaste/internal/websocket"
)

// sessionGCInterval is how often the session database reclaims space.
const sessionGCInterval = 10 * time.Minute

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("backend_url", cfg.API.BaseURL).
		Bool("auth_enabled", cfg.Security.AuthEnabled).
		Str("events_backend", cfg.Events.Backend).
		Str("version", api.Version).
		Msg("Starting UrbanWaste gateway")

	backend := client.New(cfg.API)

	sessions, err := session.Open(cfg.Session, cfg.Security.SessionTimeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	st := store.New(store.FromClient(backend),
		store.WithMapper(mapper.New(cfg.Mapping)),
		store.WithSessionStore(sessions),
		store.WithPlanner(cfg.Planner),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sess, err := st.RestoreSession(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to restore saved session")
	} else if sess != nil {
		logging.Info().
			Int64("user_id", sess.User.ID).
			Str("role", string(sess.User.Role)).
			Msg("Restored saved session")
	}

	bus, err := events.New(cfg.Events)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create change event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing change event bus")
		}
	}()
	detach := bus.Attach(st)
	defer detach()
	logging.Info().Str("backend", bus.Backend()).Str("topic", bus.Topic()).Msg("Change event bus ready")

	hub := ws.NewHub()
	forwarder := events.NewForwarder(bus, hub)

	jwtManager, enforcer := initSecurity(cfg)
	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	router := api.NewRouter(api.Deps{
		Store:         st,
		Hub:           hub,
		Config:        cfg,
		JWT:           jwtManager,
		Revoker:       sessions,
		Enforcer:      enforcer,
		Breaker:       backend.BreakerState,
		EventsBackend: bus.Backend(),
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.API.Timeout + 10*time.Second,
		WriteTimeout:      cfg.API.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewSessionGCService(sessions, sessionGCInterval))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewEventForwarderService(forwarder))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("UrbanWaste gateway stopped")
}

// initSecurity builds the gateway token manager and the Casbin enforcer.
// Without a JWT secret logins still work but no gateway token is issued;
// with auth enabled that is a startup error.
func initSecurity(cfg *config.Config) (*auth.JWTManager, *authz.Enforcer) {
	var jwtManager *auth.JWTManager
	if cfg.Security.JWTSecret != "" {
		m, err := auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		jwtManager = m
		logging.Info().Dur("session_timeout", cfg.Security.SessionTimeout).Msg("Gateway JWT enabled")
	}

	if !cfg.Security.AuthEnabled {
		logging.Warn().Msg("Authorization is DISABLED (AUTH_ENABLED=false): every route is open")
		return jwtManager, nil
	}
	if jwtManager == nil {
		logging.Fatal().Msg("AUTH_ENABLED requires JWT_SECRET")
	}

	enforcer, err := authz.NewEnforcer(&authz.EnforcerConfig{PolicyPath: cfg.Security.PolicyPath})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
	}
	logging.Info().Str("policy_path", cfg.Security.PolicyPath).Msg("Role-based authorization enabled")
	return jwtManager, enforcer
}
