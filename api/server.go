/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. RequireAdmin: Admins-table membership check on /api

ROUTE GROUPS:
  /api/groups/*     Group and roster management
  /api/members/*    Cross-group member lookups (pay links)
  /api/scenarios/*  Demo scenarios (dev)

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: RequireAdmin middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", AdminIDHeader},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(h.RequireAdmin)

		// Group routes
		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.ListGroups)
			r.Post("/", h.CreateGroup)
			r.Get("/{id}", h.GetGroup)
			r.Get("/{id}/roster", h.GetRoster)
			r.Get("/{id}/report", h.GetReport)
			r.Post("/{id}/members", h.AddMember)
			r.Put("/{id}/members/{pid}", h.UpdateMember)
			r.Delete("/{id}/members/{pid}", h.RemoveMember)
			r.Post("/{id}/payments/{pid}", h.TogglePayment)
		})

		// Member routes
		r.Route("/members", func(r chi.Router) {
			r.Get("/{pid}/paylink", h.GetPayLink)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
