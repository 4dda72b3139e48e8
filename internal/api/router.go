// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/urbanwaste/internal/auth"
	"github.com/tomtom215/urbanwaste/internal/authz"
	"github.com/tomtom215/urbanwaste/internal/config"
	"github.com/tomtom215/urbanwaste/internal/middleware"
	"github.com/tomtom215/urbanwaste/internal/store"
	"github.com/tomtom215/urbanwaste/internal/websocket"
)

// Deps are the collaborators of the gateway.
type Deps struct {
	Store  *store.Store
	Hub    *websocket.Hub
	Config *config.Config

	// JWT signs gateway tokens. Nil disables token issuance and Identify.
	JWT *auth.JWTManager
	// Revoker backs logout. May be nil.
	Revoker auth.Revoker
	// Enforcer is consulted when security.auth_enabled is set.
	Enforcer *authz.Enforcer

	// Breaker reports the backend circuit breaker state for /health.
	Breaker func() string
	// EventsBackend names the change-event transport for /health.
	EventsBackend string
}

// Router wires the handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter creates a router over deps.
func NewRouter(deps Deps) *Router {
	if deps.Config == nil {
		deps.Config = &config.Config{}
	}
	router := &Router{
		handler:       NewHandler(deps),
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromServer(&deps.Config.Server)),
	}
	if deps.JWT != nil {
		router.auth = auth.NewMiddleware(deps.JWT, deps.Revoker)
		router.handler.auth = router.auth
	}
	if deps.Config.Security.AuthEnabled && deps.Enforcer != nil {
		router.authz = authz.NewMiddleware(deps.Enforcer)
	}
	return router
}

// Handler returns the HTTP handler serving the gateway.
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.Compression)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		if router.auth != nil {
			r.Use(router.auth.Identify)
		}
		if router.authz != nil {
			r.Use(router.authz.AuthorizeRequest)
		}

		r.With(router.chiMiddleware.RateLimitCustom(RateLimitHealth)).Get("/health", router.handler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitLogin)).Post("/login", router.handler.Login)
			r.Post("/logout", router.handler.Logout)
		})

		r.Get("/ws", router.handler.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/state", router.handler.State)

			r.Route("/points", func(r chi.Router) {
				r.Get("/", router.handler.ListPoints)
				r.Post("/", router.handler.CreatePoint)
				r.Get("/stats", router.handler.PointStats)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", router.handler.UpdatePoint)
					r.Delete("/", router.handler.DeletePoint)
					r.Post("/empty", router.handler.EmptyPoint)
					r.Put("/fill-level", router.handler.SetFillLevel)
				})
			})

			r.Route("/vehicules", func(r chi.Router) {
				r.Get("/", router.handler.ListVehicules)
				r.Post("/", router.handler.CreateVehicule)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", router.handler.UpdateVehicule)
					r.Delete("/", router.handler.DeleteVehicule)
					r.Put("/statut", router.handler.SetVehiculeStatut)
				})
			})

			r.Route("/employes", func(r chi.Router) {
				r.Get("/", router.handler.ListEmployes)
				r.Post("/", router.handler.CreateEmploye)
				r.Put("/{id}", router.handler.UpdateEmploye)
				r.Delete("/{id}", router.handler.DeleteEmploye)
			})

			r.Route("/tournees", func(r chi.Router) {
				r.Get("/", router.handler.ListTournees)
				r.Post("/", router.handler.CreateTournee)
				r.With(router.chiMiddleware.RateLimitCustom(RateLimitOptimize)).Post("/optimize", router.handler.OptimizeTournees)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", router.handler.UpdateTournee)
					r.Delete("/", router.handler.DeleteTournee)
					r.Put("/statut", router.handler.SetTourneeStatut)
					r.Put("/agent", router.handler.AssignAgent)
				})
			})

			r.Route("/signalements", func(r chi.Router) {
				r.Get("/", router.handler.ListSignalements)
				r.Post("/", router.handler.CreateSignalement)
				r.Put("/{id}/statut", router.handler.SetSignalementStatut)
			})

			r.Route("/users/{role}", func(r chi.Router) {
				r.Get("/", router.handler.ListUsers)
				r.Post("/", router.handler.CreateUser)
				r.Put("/{id}", router.handler.UpdateUser)
				r.Delete("/{id}", router.handler.DeleteUser)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", router.handler.ListNotifications)
				r.Post("/", router.handler.CreateNotification)
				r.Delete("/{id}", router.handler.DismissNotification)
			})

			r.Route("/technicien/notifications", func(r chi.Router) {
				r.Get("/", router.handler.ListTechNotifications)
				r.Put("/{id}/read", router.handler.MarkTechNotificationRead)
			})

			r.Get("/export/{file}", router.handler.ExportXML)
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitImport)).Post("/import/{entity}", router.handler.ImportXML)
		})
	})

	return r
}
