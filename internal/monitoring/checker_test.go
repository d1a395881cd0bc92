package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sells-group/placesearch/internal/config"
	"github.com/sells-group/placesearch/internal/store"
)

func TestChecker_RunStopsOnCancel(t *testing.T) {
	cfg := config.MonitoringConfig{CheckIntervalSecs: 1, LookbackDays: 1}
	checker := NewChecker(NewCollector(&fakeStats{}, 0.005), NewAlerter(cfg), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Checker.Run did not stop after context cancellation")
	}
}

func TestChecker_CheckSendsAlerts(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()

	cfg := config.MonitoringConfig{WebhookURL: ts.URL, SpendThresholdUSD: 1, LookbackDays: 1}
	fs := &fakeStats{days: []store.DailyStats{{Day: "2025-03-15", Category: "restaurants", Searches: 300, Escalated: 300, Augmented: 300}}}
	checker := NewChecker(NewCollector(fs, 0.005), NewAlerter(cfg), cfg)

	sent := checker.check(context.Background(), zap.NewNop())
	assert.Equal(t, 1, sent)
	assert.Equal(t, int32(1), hits.Load())
}

func TestChecker_CheckCollectError(t *testing.T) {
	cfg := config.MonitoringConfig{SpendThresholdUSD: 1}
	checker := NewChecker(NewCollector(&fakeStats{err: assert.AnError}, 0.005), NewAlerter(cfg), cfg)
	assert.Equal(t, 0, checker.check(context.Background(), zap.NewNop()))
}
