// Package config loads runtime configuration for the news reader CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the news API
//	-t int      request timeout (seconds)
//	-d string   path of the local session database
//	-l string   log level: debug, info, warn, error
//	-f string   log format: text, json, zap
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds. Absent keys keep the previous value:
//
//	{
//	  "api_base_url": "http://localhost:8081",
//	  "request_timeout": "10s",
//	  "database_path": "newsreader.db",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// Malformed input panics at startup.
package config
