// Package store persists the search log: one row per engine search, used for
// usage statistics and provider spend estimates.
package store

import (
	"context"
	"time"
)

// DayLayout formats the day column.
const DayLayout = "2006-01-02"

// SearchRecord is one logged search.
type SearchRecord struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Query       string    `json:"query"`
	Zone        string    `json:"zone,omitempty"`
	UserID      string    `json:"user_id"`
	Curated     int       `json:"curated"`
	Escalated   bool      `json:"escalated"`
	Augmented   bool      `json:"augmented"`
	RateLimited bool      `json:"rate_limited"`
	CreatedAt   time.Time `json:"created_at"`
}

// DailyStats aggregates the log for one day and category.
type DailyStats struct {
	Day         string `json:"day"`
	Category    string `json:"category"`
	Searches    int    `json:"searches"`
	Escalated   int    `json:"escalated"`
	Augmented   int    `json:"augmented"`
	RateLimited int    `json:"rate_limited"`
}

// Spend estimates provider cost given the price of one augmented search.
func (d DailyStats) Spend(perQuery float64) float64 {
	return float64(d.Augmented) * perQuery
}

// Store is the search log.
type Store interface {
	RecordSearch(ctx context.Context, rec SearchRecord) error
	// Stats returns per-day, per-category totals for days on or after since,
	// newest day first.
	Stats(ctx context.Context, since time.Time) ([]DailyStats, error)

	Migrate(ctx context.Context) error
	Close() error
}
