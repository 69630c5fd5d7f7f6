// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RulesFile optionally points to a YAML rule-set document loaded into
	// the store at startup under DefaultRulesID.
	RulesFile string `koanf:"rules_file"`

	// DefaultRulesID names the rule set used when a request does not pick one.
	DefaultRulesID string `koanf:"default_rules_id"`

	// BatchWorkers sets the number of workers quoting batch requests.
	BatchWorkers int `koanf:"batch_workers"`

	// MaxBatchSize caps the number of events in POST /quotes/batch.
	MaxBatchSize int `koanf:"max_batch_size"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		DefaultRulesID: "default",
		BatchWorkers:   runtime.NumCPU(),
		MaxBatchSize:   500,
		MaxBodyBytes:   1 << 20,
	}
}
