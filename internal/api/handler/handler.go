// Package handler provides HTTP handlers for all API endpoints.
package handler

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhenley/scorepush/internal/api/respond"
	"github.com/mhenley/scorepush/internal/cache"
	"github.com/mhenley/scorepush/internal/config"
	"github.com/mhenley/scorepush/internal/cycle"
	"github.com/mhenley/scorepush/internal/notifications"
	"github.com/mhenley/scorepush/internal/state"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool       *pgxpool.Pool
	cache      *cache.Cache
	cfg        *config.Config
	feed       cycle.Feed
	runner     *cycle.Runner
	subs       *notifications.SubscriptionStore
	dispatcher *notifications.Dispatcher
	stateStore state.Store
}

// New creates a Handler with shared dependencies.
func New(
	pool *pgxpool.Pool,
	c *cache.Cache,
	cfg *config.Config,
	feed cycle.Feed,
	runner *cycle.Runner,
	subs *notifications.SubscriptionStore,
	dispatcher *notifications.Dispatcher,
	stateStore state.Store,
) *Handler {
	return &Handler{
		pool:       pool,
		cache:      c,
		cfg:        cfg,
		feed:       feed,
		runner:     runner,
		subs:       subs,
		dispatcher: dispatcher,
		stateStore: stateStore,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "ScorePush API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"push":    h.cfg.PushConfigured(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n)
	if err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	subCount, err := h.subs.Count(r.Context())
	if err != nil {
		subCount = -1
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"database":      "connected",
		"subscriptions": subCount,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckState verifies the previous-state store is reachable.
// @Summary State store health check
// @Description Verifies the snapshot state store (Redis or Postgres) is reachable.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/state [get]
func (h *Handler) HealthCheckState(w http.ResponseWriter, r *http.Request) {
	if err := h.stateStore.Ping(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"state":     "unreachable",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"state":     "reachable",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
