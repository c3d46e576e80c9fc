package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"MarketPulse/internal/model"
)

// DefaultWatchlist is used when no watchlist is configured.
var DefaultWatchlist = []string{"AAPL", "TSLA", "GOOGL", "MSFT", "AMZN", "META", "NVDA", "NFLX"}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr" envconfig:"ADDR"`
	} `yaml:"server" envconfig:"SERVER"`

	Watchlist            []string `yaml:"watchlist" envconfig:"WATCHLIST"`
	TickerIntervalMS     int      `yaml:"ticker_interval_ms" envconfig:"TICKER_INTERVAL_MS"`
	ChartIntervalMS      int      `yaml:"chart_interval_ms" envconfig:"CHART_INTERVAL_MS"`
	StreamPollIntervalMS int      `yaml:"stream_poll_interval_ms" envconfig:"STREAM_POLL_INTERVAL_MS"`
	ChartIdleEvictMS     int      `yaml:"chart_idle_evict_ms" envconfig:"CHART_IDLE_EVICT_MS"`
	FetchTimeoutMS       int      `yaml:"fetch_timeout_ms" envconfig:"FETCH_TIMEOUT_MS"`
	FetchConcurrency     int      `yaml:"fetch_concurrency" envconfig:"FETCH_CONCURRENCY"`

	DataSource struct {
		Provider  string `yaml:"provider" envconfig:"PROVIDER"` // yahoo, alpaca, mock
		APIKey    string `yaml:"api_key" envconfig:"API_KEY"`
		APISecret string `yaml:"api_secret" envconfig:"API_SECRET"`
		BaseURL   string `yaml:"base_url" envconfig:"BASE_URL"`
		Feed      string `yaml:"feed" envconfig:"FEED"`
	} `yaml:"data_source" envconfig:"DATA_SOURCE"`

	Breaker struct {
		MaxFailures    int `yaml:"max_failures" envconfig:"MAX_FAILURES"`
		ResetTimeoutMS int `yaml:"reset_timeout_ms" envconfig:"RESET_TIMEOUT_MS"`
	} `yaml:"breaker" envconfig:"BREAKER"`

	Telegram struct {
		BotToken string `yaml:"bot_token" envconfig:"BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" envconfig:"CHAT_ID"`
	} `yaml:"telegram" envconfig:"TELEGRAM"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database" envconfig:"DATABASE"`

	Log struct {
		Level  string `yaml:"level" envconfig:"LEVEL"`
		Format string `yaml:"format" envconfig:"FORMAT"` // json, console
	} `yaml:"log" envconfig:"LOG"`

	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides (a .env file in the working directory is loaded first, if
// present), then fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = append([]string(nil), DefaultWatchlist...)
	}
	for i, s := range c.Watchlist {
		c.Watchlist[i] = model.NormalizeSymbol(s)
	}
	if c.TickerIntervalMS == 0 {
		c.TickerIntervalMS = 2000
	}
	if c.ChartIntervalMS == 0 {
		c.ChartIntervalMS = 3000
	}
	if c.StreamPollIntervalMS == 0 {
		c.StreamPollIntervalMS = 1000
	}
	if c.ChartIdleEvictMS == 0 {
		c.ChartIdleEvictMS = 600000
	}
	if c.FetchTimeoutMS == 0 {
		c.FetchTimeoutMS = 10000
	}
	if c.FetchConcurrency == 0 {
		c.FetchConcurrency = 4
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.Feed == "" {
		c.DataSource.Feed = "iex"
	}
	if c.Breaker.MaxFailures == 0 {
		c.Breaker.MaxFailures = 5
	}
	if c.Breaker.ResetTimeoutMS == 0 {
		c.Breaker.ResetTimeoutMS = 30000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must not be empty")
	}
	seen := make(map[string]bool, len(c.Watchlist))
	for _, s := range c.Watchlist {
		if s == "" {
			return fmt.Errorf("watchlist contains an empty symbol")
		}
		if seen[s] {
			return fmt.Errorf("watchlist contains %s twice", s)
		}
		seen[s] = true
	}
	for name, v := range map[string]int{
		"ticker_interval_ms":       c.TickerIntervalMS,
		"chart_interval_ms":        c.ChartIntervalMS,
		"stream_poll_interval_ms":  c.StreamPollIntervalMS,
		"chart_idle_evict_ms":      c.ChartIdleEvictMS,
		"fetch_timeout_ms":         c.FetchTimeoutMS,
		"fetch_concurrency":        c.FetchConcurrency,
		"breaker.max_failures":     c.Breaker.MaxFailures,
		"breaker.reset_timeout_ms": c.Breaker.ResetTimeoutMS,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "alpaca":
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return fmt.Errorf("data_source.api_key and api_secret are required for alpaca")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (c *Config) TickerInterval() time.Duration      { return ms(c.TickerIntervalMS) }
func (c *Config) ChartInterval() time.Duration       { return ms(c.ChartIntervalMS) }
func (c *Config) StreamPollInterval() time.Duration  { return ms(c.StreamPollIntervalMS) }
func (c *Config) ChartIdleEvict() time.Duration      { return ms(c.ChartIdleEvictMS) }
func (c *Config) FetchTimeout() time.Duration        { return ms(c.FetchTimeoutMS) }
func (c *Config) BreakerResetTimeout() time.Duration { return ms(c.Breaker.ResetTimeoutMS) }

// TelegramEnabled reports whether outage notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
