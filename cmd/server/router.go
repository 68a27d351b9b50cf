package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jlenaghan/boliye/internal/api"
	apimiddleware "github.com/jlenaghan/boliye/internal/api/middleware"
	"github.com/jlenaghan/boliye/internal/platform/metrics"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.learnerStore,
		app.jwtService,
		app.passwordVerifier,
		&app.config.Auth,
	)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	sessionHandler := api.NewSessionHandler(app.reviewService, app.logger)
	statsHandler := api.NewStatsHandler(app.statsService, app.logger)
	healthHandler := api.NewHealthHandler(app.db, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Review session endpoints
			r.Post("/sessions", sessionHandler.Start)
			r.Get("/sessions/{id}/next", sessionHandler.Next)
			r.Post("/sessions/{id}/answer", sessionHandler.Answer)
			r.Get("/sessions/{id}/stats", sessionHandler.Stats)
			r.Post("/sessions/{id}/end", sessionHandler.End)

			// Learner dashboard
			r.Get("/learners/me/stats", statsHandler.LearnerStats)
		})
	})

	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
