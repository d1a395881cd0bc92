// Package monitoring exposes Prometheus metrics for the search engine and
// watches the search log for provider overspend.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/placesearch/internal/store"
)

// Snapshot is a point-in-time view of search and provider usage.
type Snapshot struct {
	Searches         int     `json:"searches"`
	Escalated        int     `json:"escalated"`
	Augmented        int     `json:"augmented"`
	RateLimited      int     `json:"rate_limited"`
	RateLimitedShare float64 `json:"rate_limited_share"`
	SpendUSD         float64 `json:"spend_usd"`

	ByCategory map[string]int `json:"by_category"`

	LookbackDays int       `json:"lookback_days"`
	CollectedAt  time.Time `json:"collected_at"`
}

// StatsReader is the part of store.Store the collector needs.
type StatsReader interface {
	Stats(ctx context.Context, since time.Time) ([]store.DailyStats, error)
}

// Collector aggregates the search log into snapshots.
type Collector struct {
	stats    StatsReader
	perQuery float64
	now      func() time.Time
}

// NewCollector creates a collector. perQuery is the provider price of one
// augmented search.
func NewCollector(st StatsReader, perQuery float64) *Collector {
	return &Collector{stats: st, perQuery: perQuery, now: time.Now}
}

// Collect sums the log over the last lookbackDays days, today included.
func (c *Collector) Collect(ctx context.Context, lookbackDays int) (*Snapshot, error) {
	if lookbackDays <= 0 {
		lookbackDays = 1
	}
	now := c.now().UTC()
	snap := &Snapshot{
		ByCategory:   make(map[string]int),
		LookbackDays: lookbackDays,
		CollectedAt:  now,
	}

	since := now.AddDate(0, 0, -(lookbackDays - 1))
	days, err := c.stats.Stats(ctx, since)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: read stats")
	}

	for _, d := range days {
		snap.Searches += d.Searches
		snap.Escalated += d.Escalated
		snap.Augmented += d.Augmented
		snap.RateLimited += d.RateLimited
		snap.SpendUSD += d.Spend(c.perQuery)
		snap.ByCategory[d.Category] += d.Searches
	}
	if snap.Escalated > 0 {
		snap.RateLimitedShare = float64(snap.RateLimited) / float64(snap.Escalated)
	}
	return snap, nil
}
