package records

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteSource reads tables from a SQLite database. List-valued fields are
// stored as comma-separated text.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the SQLite database at dsn.
func NewSQLiteSource(dsn string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "records: open sqlite")
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "records: sqlite busy_timeout")
	}
	return &SQLiteSource{db: db}, nil
}

// FetchAll returns every row of the table in rowid order.
func (s *SQLiteSource) FetchAll(ctx context.Context, table string) ([]Record, error) {
	if err := validIdent(table); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM `+table+` ORDER BY rowid`)
	if err != nil {
		return nil, eris.Wrapf(err, "records: query sqlite table %s", table)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "records: sqlite columns")
	}

	var out []Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrapf(err, "records: scan sqlite table %s", table)
		}
		rec := make(Record, len(cols))
		for i, c := range cols {
			if vals[i] == nil {
				continue
			}
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "records: iterate sqlite rows")
}

// Close closes the database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
