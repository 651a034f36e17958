package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/auth"
	"github.com/frahmantamala/gearguard/internal/department"
	"github.com/frahmantamala/gearguard/internal/equipment"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/report"
	"github.com/frahmantamala/gearguard/internal/team"
	"github.com/frahmantamala/gearguard/internal/transport/middleware"
	"github.com/frahmantamala/gearguard/internal/transport/swagger"
	"github.com/frahmantamala/gearguard/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups the per-domain HTTP handlers the router mounts.
type Handlers struct {
	Health      *HealthHandler
	Auth        *auth.Handler
	Roles       *auth.RoleAuthorization
	User        *user.Handler
	Department  *department.Handler
	Team        *team.Handler
	Equipment   *equipment.Handler
	Maintenance *maintenance.Handler
	Report      *report.Handler

	// Metrics is optional; nil disables both the middleware and the endpoint.
	Metrics interface {
		Middleware(http.Handler) http.Handler
		Handler() http.Handler
	}
	MetricsPath string
	OpenAPIFile string
}

func RegisterAllRoutes(router *chi.Mux, cfg internal.ServerConfig, h Handlers, logger *slog.Logger) {
	proxies, err := cfg.TrustedProxyNets()
	if err != nil {
		// forwarding headers stay ignored
		logger.Error("invalid trusted proxies", "error", err)
	}
	router.Use(middleware.TrustedRealIP(proxies))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	if h.Metrics != nil {
		router.Use(h.Metrics.Middleware)
		router.Method(http.MethodGet, h.MetricsPath, h.Metrics.Handler())
	}

	if h.OpenAPIFile != "" {
		router.Get(swagger.DocumentPath, swagger.DocumentHandler(h.OpenAPIFile))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.LoggingMiddleware(logger))
		if cfg.RateLimit.Enabled {
			r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
		}
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.ActorContext)

			pr.Get("/users", h.User.List)
			pr.Get("/users/me", h.User.GetCurrentUser)

			pr.Route("/departments", func(dr chi.Router) {
				dr.Get("/", h.Department.List)
				dr.Get("/{id}", h.Department.Get)
				dr.With(h.Roles.RequireManager()).Post("/", h.Department.Create)
				dr.With(h.Roles.RequireManager()).Put("/{id}", h.Department.Update)
				dr.With(h.Roles.RequireAdmin()).Delete("/{id}", h.Department.Delete)
			})

			pr.Route("/teams", func(tr chi.Router) {
				tr.Get("/", h.Team.List)
				tr.Get("/{id}", h.Team.Get)
				tr.Group(func(mr chi.Router) {
					mr.Use(h.Roles.RequireManager())
					mr.Post("/", h.Team.Create)
					mr.Put("/{id}", h.Team.Update)
					mr.Post("/{id}/members", h.Team.AddMember)
					mr.Delete("/{id}/members/{userID}", h.Team.RemoveMember)
				})
				tr.With(h.Roles.RequireAdmin()).Delete("/{id}", h.Team.Delete)
			})

			pr.Route("/equipment", func(er chi.Router) {
				er.Get("/", h.Equipment.List)
				er.Get("/export", h.Equipment.Export)
				er.Get("/{id}", h.Equipment.Get)
				er.Get("/{id}/requests", h.Maintenance.ListByEquipment)
				er.With(h.Roles.RequireManager()).Post("/", h.Equipment.Create)
				er.With(h.Roles.RequireManager()).Put("/{id}", h.Equipment.Update)
				er.With(h.Roles.RequireAdmin()).Delete("/{id}", h.Equipment.Delete)
			})

			pr.Route("/requests", func(rr chi.Router) {
				rr.Get("/", h.Maintenance.List)
				rr.Post("/", h.Maintenance.Create)
				rr.Get("/calendar", h.Maintenance.Calendar)
				rr.Get("/{id}", h.Maintenance.Get)
				rr.Put("/{id}", h.Maintenance.Update)
				rr.Put("/{id}/stage", h.Maintenance.SetStage)
				rr.With(h.Roles.RequireAdmin()).Delete("/{id}", h.Maintenance.Delete)
			})

			pr.Route("/reports", func(rp chi.Router) {
				rp.Get("/stages", h.Report.Stages)
				rp.Get("/teams", h.Report.Teams)
			})
		})
	})
}
