package config

import "time"

// Config holds runtime settings for the news reader CLI.
//
// Fields:
//   - APIBaseURL: base URL of the news backend (scheme required).
//   - RequestTimeout: upper bound for a single API request.
//   - DatabasePath: SQLite file holding the persisted session.
//   - LogLevel / LogFormat: see logging.New.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8081"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "newsreader.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
