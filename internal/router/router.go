package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"go-conference-manager/internal/config"
	"go-conference-manager/internal/handler"
	"go-conference-manager/internal/middleware"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Institution *handler.InstitutionHandler
	Audit       *handler.AuditHandler
	Health      *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/ping", h.Health.Ping)
	r.Get("/health", h.Health.Health)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/auth/token", h.Auth.Token)

		api.Route("/users", func(users chi.Router) {
			users.With(authMiddleware.RequireSuperAdmin).Get("/", h.User.List)
			users.With(authMiddleware.RequireSuperAdmin).Post("/", h.User.Create)
			users.With(authMiddleware.RequireAuth).Get("/me", h.User.Me)
			users.Post("/open", h.User.Register)
			users.With(authMiddleware.RequireAdmin).Get("/{id}", h.User.Get)
			users.With(authMiddleware.RequireAdmin).Put("/{id}", h.User.Update)
			users.With(authMiddleware.RequireAdmin).Delete("/{id}", h.User.Delete)
		})

		api.Route("/institutions", func(inst chi.Router) {
			inst.With(authMiddleware.RequireSuperAdmin).Get("/", h.Institution.List)
			inst.With(authMiddleware.RequireSuperAdmin).Post("/", h.Institution.Create)
			inst.With(authMiddleware.RequireActive).Get("/me", h.Institution.Me)
			inst.With(authMiddleware.RequireActive).Get("/{id}", h.Institution.Get)
			inst.With(authMiddleware.RequireAdmin).Get("/{id}/users", h.Institution.Users)
			inst.With(authMiddleware.RequireAdmin).Put("/{id}", h.Institution.Update)
			inst.With(authMiddleware.RequireSuperAdmin).Delete("/{id}", h.Institution.Delete)
		})

		api.With(authMiddleware.RequireSuperAdmin).Get("/audit", h.Audit.List)
	})

	return r
}
