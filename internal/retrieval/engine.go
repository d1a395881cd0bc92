package retrieval

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/placesearch/internal/area"
	"github.com/sells-group/placesearch/internal/augment"
	"github.com/sells-group/placesearch/internal/catalog"
	"github.com/sells-group/placesearch/internal/model"
	"github.com/sells-group/placesearch/internal/monitoring"
	"github.com/sells-group/placesearch/internal/ratelimit"
	"github.com/sells-group/placesearch/internal/records"
	"github.com/sells-group/placesearch/internal/resilience"
	"github.com/sells-group/placesearch/internal/store"
)

// DefaultCategory is searched when a request names none.
const DefaultCategory = "restaurants"

// anonymousUser keys the rate ledger for requests without a user ID.
const anonymousUser = "anonymous"

// Augmenter fetches provider content for an escalated search.
type Augmenter interface {
	Augment(ctx context.Context, q augment.Query) (*model.AugmentedAnswer, error)
}

// SearchLog records completed searches.
type SearchLog interface {
	RecordSearch(ctx context.Context, rec store.SearchRecord) error
}

// Request is one search.
type Request struct {
	Query    string `json:"query"`
	Zone     string `json:"zone,omitempty"`
	Category string `json:"category,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

// Engine answers searches from the curated store and, when warranted, the
// knowledge-search provider. It is safe for concurrent use.
type Engine struct {
	src       records.Source
	tables    map[string]string
	profiles  map[string]catalog.Profile
	ledger    *ratelimit.Ledger
	augmenter Augmenter
	breaker   *resilience.Breaker
	cache     *expirable.LRU[string, *catalog.Index]
	log       SearchLog
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTables overrides the table (or Notion database ID) per category.
func WithTables(tables map[string]string) Option {
	return func(e *Engine) { e.tables = tables }
}

// WithAugmenter enables escalation through a.
func WithAugmenter(a Augmenter) Option {
	return func(e *Engine) { e.augmenter = a }
}

// WithLedger sets the escalation ledger. The default allows
// ratelimit.DefaultDailyLimit escalations per user per day.
func WithLedger(l *ratelimit.Ledger) Option {
	return func(e *Engine) { e.ledger = l }
}

// WithBreaker guards provider calls with b.
func WithBreaker(b *resilience.Breaker) Option {
	return func(e *Engine) { e.breaker = b }
}

// WithIndexCache keeps built indexes for ttl. A non-positive ttl rebuilds
// the index on every search.
func WithIndexCache(size int, ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl <= 0 {
			e.cache = nil
			return
		}
		if size <= 0 {
			size = len(e.profiles)
		}
		e.cache = expirable.NewLRU[string, *catalog.Index](size, nil, ttl)
	}
}

// WithSearchLog records every search to l.
func WithSearchLog(l SearchLog) Option {
	return func(e *Engine) { e.log = l }
}

// WithAugmentCategories replaces the per-profile escalation switch: only the
// named categories may escalate.
func WithAugmentCategories(names []string) Option {
	return func(e *Engine) {
		allowed := make(map[string]bool, len(names))
		for _, n := range names {
			allowed[strings.ToLower(strings.TrimSpace(n))] = true
		}
		for name, p := range e.profiles {
			p.Augment = allowed[name]
			e.profiles[name] = p
		}
	}
}

// New creates an Engine reading curated rows from src.
func New(src records.Source, opts ...Option) *Engine {
	e := &Engine{
		src:      src,
		profiles: make(map[string]catalog.Profile),
		ledger:   ratelimit.NewLedger(0),
		now:      time.Now,
	}
	for _, p := range catalog.Profiles() {
		e.profiles[p.Name] = p
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Profile returns the engine's profile for a category.
func (e *Engine) Profile(category string) (catalog.Profile, error) {
	name := strings.ToLower(strings.TrimSpace(category))
	if name == "" {
		name = DefaultCategory
	}
	p, ok := e.profiles[name]
	if !ok {
		return catalog.Profile{}, eris.Wrapf(catalog.ErrUnknownCategory, "category %q", category)
	}
	return p, nil
}

// Index returns the curated index for p, from the cache when enabled.
func (e *Engine) Index(ctx context.Context, p catalog.Profile) *catalog.Index {
	if e.cache != nil {
		if ix, ok := e.cache.Get(p.Name); ok {
			return ix
		}
	}
	ix := catalog.Load(ctx, e.src, p, e.tables[p.Name])
	if e.cache != nil && ix.Len() > 0 {
		e.cache.Add(p.Name, ix)
	}
	return ix
}

// Invalidate drops every cached index.
func (e *Engine) Invalidate() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

// Search runs one query. Only an unknown category is an error; record-store
// and provider failures degrade to fewer results.
func (e *Engine) Search(ctx context.Context, req Request) (*model.Response, error) {
	p, err := e.Profile(req.Category)
	if err != nil {
		return nil, err
	}

	user := req.UserID
	if user == "" {
		user = anonymousUser
	}
	var zone model.Zone
	if strings.TrimSpace(req.Zone) != "" {
		zone = area.Normalize(req.Zone)
	}

	ix := e.Index(ctx, p)
	curated := SearchCurated(ix, p, req.Query, zone)

	var (
		ans         *model.AugmentedAnswer
		escalated   bool
		rateLimited bool
		outcome     = "curated"
	)
	if e.augmenter != nil && p.Augment && ShouldEscalate(req.Query, curated) {
		escalated = true
		today := e.now()
		if !e.ledger.TryConsume(user, today) {
			rateLimited = true
			outcome = "rate_limited"
			zap.L().Info("retrieval: escalation rate limited",
				zap.String("user", user),
				zap.String("category", p.Name),
			)
		} else {
			ans = e.escalate(ctx, p, req.Query, zone, curated)
			if ans != nil {
				outcome = "augmented"
			} else {
				outcome = "degraded"
				e.ledger.Refund(user, today)
			}
		}
	}

	resp := Merge(req.Query, curated, ans)
	resp.Category = p.Name
	resp.Zone = zone
	resp.Escalated = escalated
	resp.RateLimited = rateLimited
	resp.QuotaRemaining = e.ledger.Remaining(user, e.now())

	monitoring.Searches.WithLabelValues(p.Name, outcome).Inc()
	monitoring.CuratedResults.WithLabelValues(p.Name).Observe(float64(len(curated)))
	e.record(ctx, req, user, resp)

	return resp, nil
}

// escalate calls the provider once. Any failure is logged and yields nil.
func (e *Engine) escalate(ctx context.Context, p catalog.Profile, query string, zone model.Zone, curated []model.ScoredResult) *model.AugmentedAnswer {
	q := augment.Query{Text: query, Zone: zone, Subject: p.Noun, Context: curated}
	call := func(ctx context.Context) (*model.AugmentedAnswer, error) {
		return e.augmenter.Augment(ctx, q)
	}

	start := time.Now()
	var (
		ans *model.AugmentedAnswer
		err error
	)
	if e.breaker != nil {
		ans, err = resilience.Call(ctx, e.breaker, call)
	} else {
		ans, err = call(ctx)
	}
	monitoring.ProviderLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		monitoring.ProviderErrors.Inc()
		zap.L().Warn("retrieval: augmentation unavailable, returning curated results only",
			zap.String("category", p.Name),
			zap.Error(err),
		)
		return nil
	}
	return ans
}

func (e *Engine) record(ctx context.Context, req Request, user string, resp *model.Response) {
	if e.log == nil {
		return
	}
	err := e.log.RecordSearch(ctx, store.SearchRecord{
		Category:    resp.Category,
		Query:       req.Query,
		Zone:        string(resp.Zone),
		UserID:      user,
		Curated:     len(resp.Curated),
		Escalated:   resp.Escalated,
		Augmented:   resp.HasAugmented(),
		RateLimited: resp.RateLimited,
		CreatedAt:   e.now(),
	})
	if err != nil {
		zap.L().Warn("retrieval: failed to record search", zap.Error(err))
	}
}

// CategorySummary describes one category's curated content.
type CategorySummary struct {
	Name    string             `json:"name"`
	Title   string             `json:"title"`
	Entries int                `json:"entries"`
	Zones   map[model.Zone]int `json:"zones"`
	Augment bool               `json:"augment"`
}

// Overview loads every category concurrently and summarizes it, in
// category name order.
func (e *Engine) Overview(ctx context.Context) ([]CategorySummary, error) {
	profiles := catalog.Profiles()
	out := make([]CategorySummary, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, base := range profiles {
		p := e.profiles[base.Name]
		g.Go(func() error {
			ix := e.Index(gctx, p)
			zones := make(map[model.Zone]int)
			for _, z := range ix.Zones() {
				zones[z] = len(ix.Entries(z))
			}
			out[i] = CategorySummary{
				Name:    p.Name,
				Title:   p.Title,
				Entries: ix.Len(),
				Zones:   zones,
				Augment: p.Augment,
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "retrieval: overview")
	}
	return out, nil
}
