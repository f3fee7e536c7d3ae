// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhenley/scorepush/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the subscription and
// state layers use. Prepared statements eliminate parse overhead on every
// request. Statement names are referenced by internal/notifications and
// internal/state; schema lives in schema.sql.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Push subscriptions, keyed by endpoint the way the push service is
		"sub_upsert": `
			INSERT INTO push_subscriptions (endpoint, p256dh, auth, prefs, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (endpoint) DO UPDATE
			SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth,
			    prefs = EXCLUDED.prefs, updated_at = NOW()`,
		"sub_delete": "DELETE FROM push_subscriptions WHERE endpoint = $1",
		"sub_list":   "SELECT endpoint, p256dh, auth, prefs FROM push_subscriptions ORDER BY updated_at",
		"sub_count":  "SELECT count(*) FROM push_subscriptions",

		// Cycle state (single-row snapshot set blob)
		"state_get": "SELECT data FROM cycle_state WHERE key = $1",
		"state_put": `
			INSERT INTO cycle_state (key, data, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE
			SET data = EXCLUDED.data, updated_at = NOW()`,
		"state_clear": "DELETE FROM cycle_state WHERE key = $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
