package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id           TEXT PRIMARY KEY,
	category     TEXT NOT NULL,
	query        TEXT NOT NULL,
	zone         TEXT NOT NULL DEFAULT '',
	user_id      TEXT NOT NULL,
	curated      INTEGER NOT NULL DEFAULT 0,
	escalated    INTEGER NOT NULL DEFAULT 0,
	augmented    INTEGER NOT NULL DEFAULT 0,
	rate_limited INTEGER NOT NULL DEFAULT 0,
	day          TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_searches_day ON searches(day);
`

// Migrate creates the search log table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordSearch inserts rec, assigning an ID and timestamp when unset.
func (s *SQLiteStore) RecordSearch(ctx context.Context, rec SearchRecord) error {
	rec = withDefaults(rec)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, category, query, zone, user_id, curated, escalated, augmented, rate_limited, day, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Category, rec.Query, rec.Zone, rec.UserID, rec.Curated,
		rec.Escalated, rec.Augmented, rec.RateLimited,
		rec.CreatedAt.Format(DayLayout), rec.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert search")
}

// Stats aggregates the log by day and category.
func (s *SQLiteStore) Stats(ctx context.Context, since time.Time) ([]DailyStats, error) {
	rows, err := s.db.QueryContext(ctx, statsQuery("?"), since.UTC().Format(DayLayout))
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query stats")
	}
	defer rows.Close() //nolint:errcheck

	var out []DailyStats
	for rows.Next() {
		var d DailyStats
		if err := rows.Scan(&d.Day, &d.Category, &d.Searches, &d.Escalated, &d.Augmented, &d.RateLimited); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan stats")
		}
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate stats")
}

func statsQuery(placeholder string) string {
	return `SELECT day, category, COUNT(*),
		SUM(CASE WHEN escalated THEN 1 ELSE 0 END),
		SUM(CASE WHEN augmented THEN 1 ELSE 0 END),
		SUM(CASE WHEN rate_limited THEN 1 ELSE 0 END)
	FROM searches WHERE day >= ` + placeholder + `
	GROUP BY day, category
	ORDER BY day DESC, category`
}

func withDefaults(rec SearchRecord) SearchRecord {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec
}
