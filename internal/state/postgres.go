package state

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhenley/scorepush/internal/engine"
)

// PostgresStore keeps the snapshot set in a single row of the cycle_state
// table. Used when no Redis address is configured.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgres creates a Postgres-backed store on an existing pool.
func NewPostgres(pool *pgxpool.Pool, key string) *PostgresStore {
	return &PostgresStore{pool: pool, key: key}
}

func (s *PostgresStore) Load(ctx context.Context) (engine.SnapshotSet, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, "state_get", s.key).Scan(&data)
	if err == pgx.ErrNoRows {
		return engine.SnapshotSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cycle state: %w", err)
	}
	return decodeSet(data)
}

func (s *PostgresStore) Save(ctx context.Context, set engine.SnapshotSet) error {
	data, err := encodeSet(set)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, "state_put", s.key, data); err != nil {
		return fmt.Errorf("save cycle state: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "state_clear", s.key); err != nil {
		return fmt.Errorf("clear cycle state: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	var n int
	return s.pool.QueryRow(ctx, "health_check").Scan(&n)
}
