package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/middleware"
	"github.com/atinyakov/WorkPlanner/internal/models"
)

// RouterConfig carries the handlers and collaborators of the router.
type RouterConfig struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Teams       *TeamHandler
	PlanEntries *PlanEntryHandler

	// Verifier checks bearer tokens.
	Verifier middleware.TokenVerifier

	// AuthRate and AuthBurst throttle /authenticate per client IP.
	AuthRate  float64
	AuthBurst int

	Logger *zap.Logger
}

// NewRouter constructs and returns an HTTP handler that serves the
// WorkPlanner API.
//
// Middleware chain (applied in order):
//  1. RequestID, Recoverer: chi request plumbing
//  2. AllowContentType("application/json"): rejects non-JSON bodies
//  3. WithRequestLogging(logger): logs served requests
//  4. BearerAuth(verifier): every route but sign-in and sign-up
//
// ADMIN scope is required to create or delete teams, to assign or reset
// team leaders and to delete users.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// No RealIP: forwarding headers are client controlled and would let a
	// caller pick its own rate limit key.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(cfg.Logger))
	r.Use(middleware.BearerAuth(cfg.Verifier, cfg.Logger))

	admin := middleware.RequireScope(models.RoleAdmin)

	r.With(middleware.RateLimit(cfg.AuthRate, cfg.AuthBurst, cfg.Logger)).
		Post("/authenticate", cfg.Auth.Authenticate)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", cfg.Users.List)
		r.Post("/", cfg.Users.Create)
		r.Get("/{id}", cfg.Users.Get)
		r.With(admin).Delete("/{id}", cfg.Users.Delete)
		r.Get("/{id}/teams", cfg.Users.Teams)
		r.Put("/{id}/teams/{teamId}", cfg.Users.JoinTeam)
		r.Delete("/{id}/teams/{teamId}", cfg.Users.LeaveTeam)
	})

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", cfg.Teams.List)
		r.With(admin).Post("/", cfg.Teams.Create)
		r.Get("/{id}", cfg.Teams.Get)
		r.With(admin).Delete("/{id}", cfg.Teams.Delete)
		r.Get("/{id}/users", cfg.Teams.Members)
		r.Put("/{id}/users", cfg.Teams.AddMembers)
		r.Delete("/{id}/users/{userId}", cfg.Teams.RemoveMember)
		r.With(admin).Put("/{id}/team-leader/{userId}", cfg.Teams.SetLeader)
		r.With(admin).Delete("/{id}/team-leader", cfg.Teams.ResetLeader)
	})

	r.Route("/plan-entries", func(r chi.Router) {
		r.Get("/", cfg.PlanEntries.List)
		r.Get("/{id}", cfg.PlanEntries.Get)
		r.Delete("/{id}", cfg.PlanEntries.Delete)
		r.Get("/teams/{teamId}/users/{userId}", cfg.PlanEntries.ListFor)
		r.Post("/teams/{teamId}/users/{userId}", cfg.PlanEntries.Create)
	})

	return r
}
