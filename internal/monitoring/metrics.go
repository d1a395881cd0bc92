package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Searches counts engine searches by category and outcome
	// (curated, augmented, rate_limited, degraded).
	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "placesearch_searches_total",
		Help: "Engine searches by category and outcome.",
	}, []string{"category", "outcome"})

	// CuratedResults observes how many curated entries a search returned.
	CuratedResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placesearch_curated_results",
		Help:    "Curated entries returned per search.",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	}, []string{"category"})

	// ProviderLatency observes knowledge-search provider call latency.
	ProviderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "placesearch_provider_latency_seconds",
		Help:    "Latency of knowledge-search provider calls.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	})

	// ProviderErrors counts failed provider calls, including open-circuit
	// rejections.
	ProviderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "placesearch_provider_errors_total",
		Help: "Failed knowledge-search provider calls.",
	})

	// CircuitState reports the provider breaker position (0 closed, 1 open,
	// 2 half-open).
	CircuitState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "placesearch_provider_circuit_state",
		Help: "Provider circuit breaker state.",
	})

	// SpendUSD is the estimated provider spend over the monitoring lookback
	// window, refreshed by the checker.
	SpendUSD = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "placesearch_provider_spend_usd",
		Help: "Estimated provider spend over the lookback window.",
	})
)
