package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/pratik-mahalle/voltcast-alerts/docs"
	"github.com/pratik-mahalle/voltcast-alerts/internal/api/handlers"
	"github.com/pratik-mahalle/voltcast-alerts/internal/api/middleware"
	"github.com/pratik-mahalle/voltcast-alerts/internal/config"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/metrics"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Rule   *handlers.RuleHandler
	Ingest *handlers.IngestHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.CORSOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/", h.Health.Root)

		r.Get("/swagger/*", httpSwagger.WrapHandler)
		r.Handle("/metrics", metrics.Handler())

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		// Ingestion, plus the prefixed alias
		r.Post("/api/v1/data/ingest", h.Ingest.Ingest)
		r.Post("/alert/api/v1/data/ingest", h.Ingest.Ingest)
	})

	// Rule management, protected when a JWT secret is configured
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

		r.Route("/alert/api/v1/rules", func(r chi.Router) {
			r.Post("/", h.Rule.Create)
			r.Get("/{user_id}", h.Rule.ListForUser)
			r.Delete("/{rule_id}", h.Rule.Deactivate)
		})
	})

	return r
}
