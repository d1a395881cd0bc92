package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "searches.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSQLiteStore_RecordAndStats(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	day1 := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	recs := []SearchRecord{
		{Category: "restaurants", Query: "sate", UserID: "u1", Curated: 1, CreatedAt: day1},
		{Category: "restaurants", Query: "new 2025", UserID: "u1", Escalated: true, Augmented: true, CreatedAt: day1},
		{Category: "restaurants", Query: "hours", UserID: "u1", Escalated: true, RateLimited: true, CreatedAt: day2},
		{Category: "spa", Query: "", UserID: "u2", Curated: 4, CreatedAt: day2},
		{Category: "spa", Query: "old", UserID: "u2", CreatedAt: day1.AddDate(0, 0, -10)},
	}
	for _, r := range recs {
		require.NoError(t, s.RecordSearch(ctx, r))
	}

	stats, err := s.Stats(ctx, day1)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, DailyStats{Day: "2025-03-15", Category: "restaurants", Searches: 1, Escalated: 1, RateLimited: 1}, stats[0])
	assert.Equal(t, DailyStats{Day: "2025-03-15", Category: "spa", Searches: 1}, stats[1])
	assert.Equal(t, DailyStats{Day: "2025-03-14", Category: "restaurants", Searches: 2, Escalated: 1, Augmented: 1}, stats[2])
}

func TestSQLiteStore_AssignsID(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.RecordSearch(ctx, SearchRecord{Category: "art", Query: "a", UserID: "u"}))
	require.NoError(t, s.RecordSearch(ctx, SearchRecord{Category: "art", Query: "b", UserID: "u"}))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(DISTINCT id) FROM searches`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestSQLiteStore_StatsEmpty(t *testing.T) {
	s := newTestSQLite(t)
	stats, err := s.Stats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestDailyStats_Spend(t *testing.T) {
	d := DailyStats{Augmented: 4}
	assert.InDelta(t, 0.02, d.Spend(0.005), 1e-9)
}

func TestWithDefaults(t *testing.T) {
	local := time.Date(2025, 1, 1, 23, 30, 0, 0, time.FixedZone("WITA", 8*3600))
	rec := withDefaults(SearchRecord{CreatedAt: local})
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.Equal(t, "2025-01-01", rec.CreatedAt.Format(DayLayout))

	rec = withDefaults(SearchRecord{ID: "fixed"})
	assert.Equal(t, "fixed", rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}
