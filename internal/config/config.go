// Package config provides unified configuration loading for synthsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config contains all synthsim configuration settings.
type Config struct {
	// Engine contains simulation defaults applied when flags omit them.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Analysis contains defaults for the region and sensitivity analyzers.
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// EngineConfig holds simulation defaults.
type EngineConfig struct {
	// Executions is the default number of Monte-Carlo trials per persona.
	Executions int `json:"executions" yaml:"executions"`

	// Sigma is the default trait noise scale. Zero defers to the scenario.
	Sigma float64 `json:"sigma" yaml:"sigma"`

	// Parallelism bounds concurrent persona simulation. Zero means one
	// worker per CPU.
	Parallelism int `json:"parallelism" yaml:"parallelism"`
}

// AnalysisConfig holds analyzer defaults.
type AnalysisConfig struct {
	// Deltas are the scorecard perturbations for sensitivity analysis.
	Deltas []float64 `json:"deltas" yaml:"deltas"`

	// MinFailureRate is the reporting floor for region rules.
	MinFailureRate float64 `json:"min_failure_rate" yaml:"min_failure_rate"`

	// MaxDepth bounds the region tree depth.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
}

// LoggingConfig configures synthsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables run tracing to .synthsim/trace.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Executions: 100,
		},
		Analysis: AnalysisConfig{
			Deltas:         []float64{-0.10, -0.05, 0.05, 0.10},
			MinFailureRate: 0.5,
			MaxDepth:       4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration for the given project root. Precedence, lowest to
// highest: defaults, .synthsim/config.yaml, environment variables.
// A missing config file is not an error.
func Load(root string) (Config, error) {
	cfg := Default()

	path := filepath.Join(root, ".synthsim", "config.yaml")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.Engine.Executions <= 0 {
		return cfg, fmt.Errorf("config: engine.executions = %d, want > 0", cfg.Engine.Executions)
	}
	return cfg, nil
}

// applyEnv overlays SYNTHSIM_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SYNTHSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SYNTHSIM_EXECUTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.Executions = n
		}
	}
	if v := os.Getenv("SYNTHSIM_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.Parallelism = n
		}
	}
}
