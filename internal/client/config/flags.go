package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/newsreader/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in doc.go are considered; everything else in os.Args is ignored.
func parseFlags(cfg *Config) {
	args := flagx.Filter(os.Args[1:], "a", "t", "d", "l", "f")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the news API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: text, json or zap")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
