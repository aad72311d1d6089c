// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/anngon/internal/core/badge"
	"github.com/taibuivan/anngon/internal/core/category"
	"github.com/taibuivan/anngon/internal/core/food"
	"github.com/taibuivan/anngon/internal/core/stall"
	"github.com/taibuivan/anngon/internal/orders/order"
	"github.com/taibuivan/anngon/internal/platform/config"
	"github.com/taibuivan/anngon/internal/platform/constants"
	"github.com/taibuivan/anngon/internal/platform/middleware"
	"github.com/taibuivan/anngon/internal/social/rating"
	"github.com/taibuivan/anngon/internal/users/account"
	"github.com/taibuivan/anngon/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication routes (register, login, refresh, OAuth).
	Auth *auth.Handler

	// Account handles profile and session management for signed-in users.
	Account *account.Handler

	// Stall handles the merchant catalogue.
	Stall *stall.Handler

	// Food handles the menu catalogue.
	Food *food.Handler

	// Category manages the flat dish category list.
	Category *category.Handler

	// Badge manages achievement badges awarded to stalls.
	Badge *badge.Handler

	// Order handles checkout and the order lifecycle.
	Order *order.Handler

	// Rating handles dish ratings and reviews.
	Rating *rating.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		// Catalogue: public reads, role-gated writes inside each group
		api.Route("/stalls", h.Stall.RegisterRoutes)
		api.Route("/foods", h.Food.RegisterRoutes)
		api.Route("/categories", h.Category.RegisterRoutes)
		api.Route("/badges", h.Badge.RegisterRoutes)

		api.Route("/ratings", func(ratings chi.Router) {
			h.Rating.RegisterRoutes(ratings)
			ratings.Group(func(protected chi.Router) {
				protected.Use(middleware.RequireAuth)
				h.Rating.RegisterProtectedRoutes(protected)
			})
		})

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth)
			protected.Mount("/orders", h.Order.Routes())
		})

		// Account routes carry /me and public /users/{id} together
		api.Mount("/", h.Account.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
