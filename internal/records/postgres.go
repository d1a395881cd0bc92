package records

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Querier is the subset of pgxpool.Pool used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads tables from PostgreSQL. text[] columns map to lists.
type PostgresSource struct {
	pool    Querier
	closeFn func()
}

// NewPostgresSource connects to PostgreSQL.
func NewPostgresSource(ctx context.Context, connString string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "records: create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "records: ping postgres")
	}
	return &PostgresSource{pool: pool, closeFn: pool.Close}, nil
}

// FetchAll returns every row of the table.
func (s *PostgresSource) FetchAll(ctx context.Context, table string) ([]Record, error) {
	if err := validIdent(table); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT * FROM `+pgx.Identifier{table}.Sanitize())
	if err != nil {
		return nil, eris.Wrapf(err, "records: query postgres table %s", table)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Record
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, eris.Wrapf(err, "records: scan postgres table %s", table)
		}
		out = append(out, toRecord(fields, vals))
	}
	return out, eris.Wrap(rows.Err(), "records: iterate postgres rows")
}

func toRecord(fields []pgconn.FieldDescription, vals []any) Record {
	rec := make(Record, len(fields))
	for i, f := range fields {
		if i >= len(vals) || vals[i] == nil {
			continue
		}
		rec[f.Name] = vals[i]
	}
	return rec
}

// Close releases the pool.
func (s *PostgresSource) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}
