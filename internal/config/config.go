package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Records    RecordsConfig    `yaml:"records" mapstructure:"records"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Escalation EscalationConfig `yaml:"escalation" mapstructure:"escalation"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	Index      IndexConfig      `yaml:"index" mapstructure:"index"`
	Pricing    PricingConfig    `yaml:"pricing" mapstructure:"pricing"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// RecordsConfig selects the curated record store.
type RecordsConfig struct {
	// Source is one of notion, sqlite, postgres or file.
	Source string `yaml:"source" mapstructure:"source"`
	// DSN is the SQLite path or Postgres connection string.
	DSN string `yaml:"dsn" mapstructure:"dsn"`
	// Dir holds fixture files for the file source.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Tables maps category name to table name (or Notion database ID).
	Tables map[string]string `yaml:"tables" mapstructure:"tables"`
}

// Table returns the configured table for a category, or "" for the default.
func (r RecordsConfig) Table(category string) string {
	return r.Tables[category]
}

// NotionConfig holds Notion API credentials.
type NotionConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// StoreConfig configures the search log database. Driver "none" disables
// the log.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// PerplexityConfig holds knowledge-search provider settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// EscalationConfig bounds provider usage.
type EscalationConfig struct {
	DailyLimit  int      `yaml:"daily_limit" mapstructure:"daily_limit"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Categories  []string `yaml:"categories" mapstructure:"categories"`
}

// Timeout returns the provider call timeout.
func (e EscalationConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

// CircuitConfig configures the provider circuit breaker.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// IndexConfig configures the curated index cache. A zero TTL rebuilds the
// index on every search.
type IndexConfig struct {
	CacheTTLSecs int `yaml:"cache_ttl_secs" mapstructure:"cache_ttl_secs"`
	CacheSize    int `yaml:"cache_size" mapstructure:"cache_size"`
}

// PricingConfig holds provider prices used for spend estimates.
type PricingConfig struct {
	Perplexity PerplexityPricing `yaml:"perplexity" mapstructure:"perplexity"`
}

// PerplexityPricing is the price of one provider query in USD.
type PerplexityPricing struct {
	PerQuery float64 `yaml:"per_query" mapstructure:"per_query"`
}

// MonitoringConfig configures spend and quota alerts.
type MonitoringConfig struct {
	WebhookURL        string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	SpendThresholdUSD float64 `yaml:"spend_threshold_usd" mapstructure:"spend_threshold_usd"`
	RateLimitedShare  float64 `yaml:"rate_limited_share" mapstructure:"rate_limited_share"`
	CheckIntervalSecs int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	LookbackDays      int     `yaml:"lookback_days" mapstructure:"lookback_days"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that the settings a command needs are present. Mode is the
// command name.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "search", "serve", "categories":
		switch c.Records.Source {
		case "notion":
			if c.Notion.Token == "" {
				errs = append(errs, "notion.token is required for records.source=notion")
			}
		case "sqlite", "postgres":
			if c.Records.DSN == "" {
				errs = append(errs, fmt.Sprintf("records.dsn is required for records.source=%s", c.Records.Source))
			}
		case "file":
			if c.Records.Dir == "" {
				errs = append(errs, "records.dir is required for records.source=file")
			}
		default:
			errs = append(errs, fmt.Sprintf("records.source %q is not one of notion, sqlite, postgres, file", c.Records.Source))
		}
	case "stats":
		if c.Store.Driver == "none" {
			errs = append(errs, "store.driver must be sqlite or postgres for stats")
		}
	}

	if mode == "serve" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	switch c.Store.Driver {
	case "none":
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q is not one of sqlite, postgres, none", c.Store.Driver))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PLACESEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("records.source", "file")
	v.SetDefault("records.dir", "data")
	v.SetDefault("records.dsn", "")
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.rate_limit", 3.0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "placesearch.db")
	v.SetDefault("perplexity.key", "")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar")
	v.SetDefault("escalation.daily_limit", 3)
	v.SetDefault("escalation.timeout_secs", 20)
	v.SetDefault("escalation.categories", []string{"restaurants"})
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 60)
	v.SetDefault("index.cache_ttl_secs", 0)
	v.SetDefault("index.cache_size", 16)
	v.SetDefault("pricing.perplexity.per_query", 0.005)
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.spend_threshold_usd", 5.0)
	v.SetDefault("monitoring.rate_limited_share", 0.5)
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.lookback_days", 1)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
