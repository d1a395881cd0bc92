package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Records.Source)
	assert.Equal(t, "data", cfg.Records.Dir)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "placesearch.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Perplexity.BaseURL)
	assert.Equal(t, "sonar", cfg.Perplexity.Model)
	assert.Equal(t, 3, cfg.Escalation.DailyLimit)
	assert.Equal(t, 20*time.Second, cfg.Escalation.Timeout())
	assert.Equal(t, []string{"restaurants"}, cfg.Escalation.Categories)
	assert.Equal(t, 5, cfg.Circuit.FailureThreshold)
	assert.Equal(t, 0, cfg.Index.CacheTTLSecs)
	assert.InDelta(t, 0.005, cfg.Pricing.Perplexity.PerQuery, 1e-9)
	assert.InDelta(t, 3.0, cfg.Notion.RateLimit, 1e-9)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
records:
  source: notion
  tables:
    restaurants: 0f1e2d3c
store:
  driver: postgres
  database_url: postgres://localhost/places
escalation:
  daily_limit: 5
  categories: [restaurants, hotels]
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "notion", cfg.Records.Source)
	assert.Equal(t, "0f1e2d3c", cfg.Records.Table("restaurants"))
	assert.Equal(t, "", cfg.Records.Table("spa"))
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Escalation.DailyLimit)
	assert.Equal(t, []string{"restaurants", "hotels"}, cfg.Escalation.Categories)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, 20, cfg.Escalation.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("PLACESEARCH_STORE_DRIVER", "none")
	t.Setenv("PLACESEARCH_LOG_LEVEL", "warn")
	t.Setenv("PLACESEARCH_PERPLEXITY_KEY", "pplx-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "pplx-test", cfg.Perplexity.Key)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("records: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}

func validDefaults() *Config {
	cfg := &Config{}
	cfg.Records.Source = "file"
	cfg.Records.Dir = "data"
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "placesearch.db"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		mutate  func(c *Config)
		wantErr []string
	}{
		{name: "defaults_search", mode: "search"},
		{name: "defaults_serve", mode: "serve"},
		{
			name:    "notion_without_token",
			mode:    "search",
			mutate:  func(c *Config) { c.Records.Source = "notion" },
			wantErr: []string{"notion.token is required"},
		},
		{
			name:    "sqlite_without_dsn",
			mode:    "categories",
			mutate:  func(c *Config) { c.Records.Source = "sqlite" },
			wantErr: []string{"records.dsn is required for records.source=sqlite"},
		},
		{
			name:    "unknown_source",
			mode:    "search",
			mutate:  func(c *Config) { c.Records.Source = "airtable" },
			wantErr: []string{`records.source "airtable"`},
		},
		{
			name:    "bad_port",
			mode:    "serve",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: []string{"server.port 0 is out of range"},
		},
		{
			name:    "stats_without_store",
			mode:    "stats",
			mutate:  func(c *Config) { c.Store.Driver = "none" },
			wantErr: []string{"store.driver must be sqlite or postgres"},
		},
		{
			name: "multiple",
			mode: "serve",
			mutate: func(c *Config) {
				c.Store.DatabaseURL = ""
				c.Server.Port = 70000
			},
			wantErr: []string{"store.database_url is required", "server.port 70000"},
		},
		{
			name:   "store_disabled",
			mode:   "search",
			mutate: func(c *Config) { c.Store = StoreConfig{Driver: "none"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.Validate(tt.mode)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
