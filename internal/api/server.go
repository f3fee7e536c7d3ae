// Package api wires the Chi router, middleware stack, and endpoint handlers.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/mhenley/scorepush/internal/api/handler"
	"github.com/mhenley/scorepush/internal/cache"
	"github.com/mhenley/scorepush/internal/config"
	"github.com/mhenley/scorepush/internal/cycle"
	"github.com/mhenley/scorepush/internal/notifications"
	"github.com/mhenley/scorepush/internal/state"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(
	pool *pgxpool.Pool,
	appCache *cache.Cache,
	cfg *config.Config,
	feed cycle.Feed,
	runner *cycle.Runner,
	subs *notifications.SubscriptionStore,
	dispatcher *notifications.Dispatcher,
	stateStore state.Store,
) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, appCache, cfg, feed, runner, subs, dispatcher, stateStore)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/state", h.HealthCheckState)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Observation mode — read-only, no event detection
		r.Get("/scoreboard", h.GetScoreboard)

		// Detection cycle
		r.Post("/cycle", h.RunCycle)

		// Push subscriptions
		r.Get("/push/key", h.GetPushKey)
		r.Post("/push/test", h.TestPush)
		r.Post("/subscriptions", h.RegisterSubscription)
		r.Delete("/subscriptions", h.RemoveSubscription)
	})

	return r
}
