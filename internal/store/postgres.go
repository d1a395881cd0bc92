package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 4
	pgxCfg.MinConns = 1
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			pgxCfg.MaxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			pgxCfg.MinConns = poolCfg.MinConns
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id           UUID PRIMARY KEY,
	category     TEXT NOT NULL,
	query        TEXT NOT NULL,
	zone         TEXT NOT NULL DEFAULT '',
	user_id      TEXT NOT NULL,
	curated      INTEGER NOT NULL DEFAULT 0,
	escalated    BOOLEAN NOT NULL DEFAULT false,
	augmented    BOOLEAN NOT NULL DEFAULT false,
	rate_limited BOOLEAN NOT NULL DEFAULT false,
	day          TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_searches_day ON searches(day);
`

// Migrate creates the search log table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// RecordSearch inserts rec, assigning an ID and timestamp when unset.
func (s *PostgresStore) RecordSearch(ctx context.Context, rec SearchRecord) error {
	rec = withDefaults(rec)
	_, err := s.pool.Exec(ctx,
		`INSERT INTO searches (id, category, query, zone, user_id, curated, escalated, augmented, rate_limited, day, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Category, rec.Query, rec.Zone, rec.UserID, rec.Curated,
		rec.Escalated, rec.Augmented, rec.RateLimited,
		rec.CreatedAt.Format(DayLayout), rec.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert search")
}

// Stats aggregates the log by day and category.
func (s *PostgresStore) Stats(ctx context.Context, since time.Time) ([]DailyStats, error) {
	rows, err := s.pool.Query(ctx, statsQuery("$1"), since.UTC().Format(DayLayout))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query stats")
	}
	defer rows.Close()

	var out []DailyStats
	for rows.Next() {
		var d DailyStats
		if err := rows.Scan(&d.Day, &d.Category, &d.Searches, &d.Escalated, &d.Augmented, &d.RateLimited); err != nil {
			return nil, eris.Wrap(err, "postgres: scan stats")
		}
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate stats")
}
