package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/placesearch/internal/area"
	"github.com/sells-group/placesearch/internal/model"
	"github.com/sells-group/placesearch/internal/records"
)

const (
	defaultArea = "unknown"
	defaultName = "Unknown"
)

// Index groups a category's entries by zone. Zones keep first-seen order and
// entries keep record order within their zone. An Index is read-only once
// built and may be shared between goroutines.
type Index struct {
	category string
	zones    []model.Zone
	entries  map[model.Zone][]*model.Entry
}

// Category returns the profile name the index was built for.
func (ix *Index) Category() string { return ix.category }

// Zones returns the indexed zones in first-seen order.
func (ix *Index) Zones() []model.Zone {
	out := make([]model.Zone, len(ix.zones))
	copy(out, ix.zones)
	return out
}

// Entries returns the entries of one zone, or nil when the zone is absent.
func (ix *Index) Entries(z model.Zone) []*model.Entry {
	return ix.entries[z]
}

// Len returns the total number of entries.
func (ix *Index) Len() int {
	n := 0
	for _, es := range ix.entries {
		n += len(es)
	}
	return n
}

// Empty returns an index with no entries.
func Empty(category string) *Index {
	return &Index{category: category, entries: map[model.Zone][]*model.Entry{}}
}

// Build turns raw rows into an index using the profile's field map.
func Build(p Profile, recs []records.Record) *Index {
	ix := Empty(p.Name)
	for _, r := range recs {
		z := area.Normalize(r.String(p.Fields.Area, defaultArea))
		if _, ok := ix.entries[z]; !ok {
			ix.zones = append(ix.zones, z)
		}
		ix.entries[z] = append(ix.entries[z], newEntry(p, r))
	}
	return ix
}

// Load reads the profile's table from src and builds its index. A failed read
// yields an empty index; the error is logged, not returned.
func Load(ctx context.Context, src records.Source, p Profile, table string) *Index {
	if table == "" {
		table = p.Table
	}
	recs, err := src.FetchAll(ctx, table)
	if err != nil {
		zap.L().Warn("catalog: record store unavailable, using empty index",
			zap.String("category", p.Name),
			zap.String("table", table),
			zap.Error(err),
		)
		return Empty(p.Name)
	}

	ix := Build(p, recs)
	zap.L().Debug("catalog: index built",
		zap.String("category", p.Name),
		zap.Int("entries", ix.Len()),
		zap.Int("zones", len(ix.zones)),
	)
	return ix
}

func newEntry(p Profile, r records.Record) *model.Entry {
	f := p.Fields
	text := func(field string) string {
		if field == "" {
			return ""
		}
		return r.String(field, "")
	}

	name := defaultName
	if f.Name != "" {
		name = r.String(f.Name, defaultName)
	}

	var tags []string
	if f.Tags != "" {
		tags = r.Strings(f.Tags)
	}

	e := &model.Entry{
		Name:         name,
		NameLocal:    text(f.NameLocal),
		Category:     text(f.Category),
		Type:         text(f.Type),
		Cuisine:      text(f.Cuisine),
		CuisineLocal: text(f.CuisineLocal),
		Vibe:         text(f.Vibe),
		VibeLocal:    text(f.VibeLocal),
		Price:        text(f.Price),
		Tags:         tags,
		Link:         text(f.Link),
		Phone:        text(f.Phone),
		Highlights:   text(f.Highlights),
		Distinction:  text(f.Distinction),
	}
	e.Keywords = keywords(e)
	return e
}

// keywords derives the lower-cased search tokens of an entry: the whole
// type, each cuisine and vibe word, and each trimmed tag.
func keywords(e *model.Entry) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(k string) {
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}

	add(strings.ToLower(e.Type))
	for _, w := range strings.Fields(strings.ToLower(e.Cuisine)) {
		add(w)
	}
	for _, w := range strings.Fields(strings.ToLower(e.Vibe)) {
		add(w)
	}
	for _, t := range e.Tags {
		add(strings.ToLower(strings.TrimSpace(t)))
	}
	return out
}
