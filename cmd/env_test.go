package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/placesearch/internal/config"
	"github.com/sells-group/placesearch/internal/records"
	"github.com/sells-group/placesearch/internal/retrieval"
	"github.com/sells-group/placesearch/internal/store"
)

const restaurantFixture = `
- restaurant_name_en: Sate Bar
  area: Berawa
  category_en: grill
  cuisine_style_en: Indonesian
  price_level: $
- restaurant_name_en: Locavore NXT
  area: Ubud
  category_en: Fine Dining
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "restaurants.yaml"), []byte(restaurantFixture), 0o644))

	return &config.Config{
		Records: config.RecordsConfig{Source: "file", Dir: dir},
		Store:   config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "log.db")},
		Escalation: config.EscalationConfig{
			DailyLimit:  3,
			TimeoutSecs: 20,
			Categories:  []string{"restaurants"},
		},
		Server: config.ServerConfig{Port: 8080, CORSOrigins: []string{"*"}},
		Log:    config.LogConfig{Level: "info", Format: "json"},
	}
}

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestInitEnv_FileSourceAndSQLiteLog(t *testing.T) {
	withConfig(t, testConfig(t))

	env, err := initEnv(context.Background(), "search")
	require.NoError(t, err)
	defer env.Close()

	require.NotNil(t, env.Store)
	resp, err := env.Engine.Search(context.Background(), retrieval.Request{Query: "sate"})
	require.NoError(t, err)
	require.Len(t, resp.Curated, 1)
	assert.Equal(t, "Sate Bar", resp.Curated[0].Name)
	assert.False(t, resp.Escalated, "no perplexity key configured")
}

func TestInitEnv_InvalidConfig(t *testing.T) {
	c := testConfig(t)
	c.Records.Source = "airtable"
	withConfig(t, c)

	_, err := initEnv(context.Background(), "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "records.source")
}

func TestInitStore(t *testing.T) {
	c := testConfig(t)

	c.Store.Driver = "none"
	st, err := initStore(context.Background(), c)
	require.NoError(t, err)
	assert.Nil(t, st)

	c.Store.Driver = "sqlite"
	st, err = initStore(context.Background(), c)
	require.NoError(t, err)
	_, ok := st.(*store.SQLiteStore)
	assert.True(t, ok)
	require.NoError(t, st.Close())

	c.Store.Driver = "mysql"
	_, err = initStore(context.Background(), c)
	assert.Error(t, err)
}

func TestInitSource(t *testing.T) {
	c := testConfig(t)

	src, closeFn, err := initSource(context.Background(), c)
	require.NoError(t, err)
	assert.Nil(t, closeFn)
	assert.IsType(t, &records.FileSource{}, src)

	c.Records.Source = "notion"
	c.Notion.Token = "secret"
	src, _, err = initSource(context.Background(), c)
	require.NoError(t, err)
	assert.IsType(t, &records.NotionSource{}, src)

	c.Records.Source = "sqlite"
	c.Records.DSN = filepath.Join(t.TempDir(), "records.db")
	src, closeFn, err = initSource(context.Background(), c)
	require.NoError(t, err)
	assert.IsType(t, &records.SQLiteSource{}, src)
	require.NotNil(t, closeFn)
	require.NoError(t, closeFn())

	c.Records.Source = "csv"
	_, _, err = initSource(context.Background(), c)
	assert.Error(t, err)
}

func TestNewEngine_WithProviderKey(t *testing.T) {
	c := testConfig(t)
	c.Perplexity.Key = "pplx-test"
	c.Perplexity.BaseURL = "http://127.0.0.1:1"
	c.Escalation.TimeoutSecs = 1
	c.Circuit.FailureThreshold = 1

	src, _, err := initSource(context.Background(), c)
	require.NoError(t, err)
	eng := newEngine(c, src, nil)

	resp, err := eng.Search(context.Background(), retrieval.Request{Query: "sate bar hours"})
	require.NoError(t, err)
	assert.True(t, resp.Escalated)
	assert.False(t, resp.HasAugmented(), "unreachable provider degrades to curated only")
	require.Len(t, resp.Curated, 1)
	assert.Equal(t, 3, resp.QuotaRemaining, "failed provider call is refunded")
}
