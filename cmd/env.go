package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/placesearch/internal/augment"
	"github.com/sells-group/placesearch/internal/config"
	"github.com/sells-group/placesearch/internal/monitoring"
	"github.com/sells-group/placesearch/internal/ratelimit"
	"github.com/sells-group/placesearch/internal/records"
	"github.com/sells-group/placesearch/internal/resilience"
	"github.com/sells-group/placesearch/internal/retrieval"
	"github.com/sells-group/placesearch/internal/store"
	"github.com/sells-group/placesearch/pkg/notion"
	"github.com/sells-group/placesearch/pkg/perplexity"
)

// searchEnv holds the engine and the resources behind it, shared by the
// search, serve and categories commands.
type searchEnv struct {
	Engine *retrieval.Engine
	Store  store.Store // nil when store.driver is none

	closers []func() error
}

// Close releases the record source and the search log.
func (se *searchEnv) Close() {
	for i := len(se.closers) - 1; i >= 0; i-- {
		if err := se.closers[i](); err != nil {
			zap.L().Warn("close resource", zap.Error(err))
		}
	}
}

// initEnv validates config for mode, opens the record source and search log
// and builds the engine. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*searchEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	env := &searchEnv{}

	src, closeSrc, err := initSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closeSrc != nil {
		env.closers = append(env.closers, closeSrc)
	}

	st, err := initStore(ctx, cfg)
	if err != nil {
		env.Close()
		return nil, err
	}
	if st != nil {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			env.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
		env.Store = st
		env.closers = append(env.closers, st.Close)
	}

	env.Engine = newEngine(cfg, src, env.Store)
	return env, nil
}

// initSource opens the configured curated record store. The returned close
// func may be nil.
func initSource(ctx context.Context, c *config.Config) (records.Source, func() error, error) {
	switch c.Records.Source {
	case "notion":
		nc := notion.NewClient(c.Notion.Token, notion.WithRateLimit(c.Notion.RateLimit))
		return records.NewNotionSource(nc), nil, nil
	case "sqlite":
		s, err := records.NewSQLiteSource(c.Records.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "postgres":
		s, err := records.NewPostgresSource(ctx, c.Records.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "file":
		return records.NewFileSource(c.Records.Dir), nil, nil
	default:
		return nil, nil, eris.Errorf("unsupported records source: %s", c.Records.Source)
	}
}

// initStore opens the search log. It returns nil when the log is disabled.
func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Store.Driver {
	case "none":
		return nil, nil
	case "sqlite":
		dsn := c.Store.DatabaseURL
		if dsn == "" {
			dsn = "placesearch.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, c.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: c.Store.MaxConns,
			MinConns: c.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
}

// newEngine wires the engine from config. Escalation is enabled only when a
// Perplexity key is set. log may be nil.
func newEngine(c *config.Config, src records.Source, log store.Store) *retrieval.Engine {
	opts := []retrieval.Option{
		retrieval.WithTables(c.Records.Tables),
		retrieval.WithLedger(ratelimit.NewLedger(c.Escalation.DailyLimit)),
		retrieval.WithAugmentCategories(c.Escalation.Categories),
		retrieval.WithIndexCache(c.Index.CacheSize, time.Duration(c.Index.CacheTTLSecs)*time.Second),
	}
	if log != nil {
		opts = append(opts, retrieval.WithSearchLog(log))
	}

	if c.Perplexity.Key != "" {
		pc := perplexity.NewClient(c.Perplexity.Key,
			perplexity.WithBaseURL(c.Perplexity.BaseURL),
			perplexity.WithModel(c.Perplexity.Model),
		)
		breaker := resilience.NewBreaker(resilience.Config{
			FailureThreshold: c.Circuit.FailureThreshold,
			ResetTimeout:     time.Duration(c.Circuit.ResetTimeoutSecs) * time.Second,
			OnStateChange: func(from, to resilience.State) {
				monitoring.CircuitState.Set(float64(to))
				zap.L().Warn("provider circuit state changed",
					zap.Stringer("from", from),
					zap.Stringer("to", to),
				)
			},
		})
		opts = append(opts,
			retrieval.WithAugmenter(augment.New(pc, augment.WithTimeout(c.Escalation.Timeout()))),
			retrieval.WithBreaker(breaker),
		)
	} else {
		zap.L().Debug("PLACESEARCH_PERPLEXITY_KEY not set, escalation disabled")
	}

	return retrieval.New(src, opts...)
}
