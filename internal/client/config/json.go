package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/newsreader/internal/flagx"
	"github.com/dmitrijs2005/newsreader/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling.
type JSONConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	DatabasePath   string          `json:"database_path"`
	LogLevel       string          `json:"log_level"`
	LogFormat      string          `json:"log_format"`
}

// parseJSON overlays cfg with the file named by -c/-config. Keys missing
// from the file leave cfg untouched. Panics on read or decode errors.
func parseJSON(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
}
