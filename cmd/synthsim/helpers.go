package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"synthsim/internal/config"
	"synthsim/internal/logging"
	"synthsim/internal/pathutil"
	"synthsim/internal/scenario"
	"synthsim/internal/scorecard"
	"synthsim/internal/store"
)

// toolContext bundles the per-invocation wiring every command needs.
type toolContext struct {
	root    string
	cfg     config.Config
	log     *slog.Logger
	trace   *logging.TraceLogger
	store   *store.SQLiteStore
	jsonOut bool
}

// setup loads config and wires logging and the store for a command.
func setup(cmd *cobra.Command) (*toolContext, error) {
	root, _ := cmd.Flags().GetString("root")
	jsonOut, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	s, err := store.NewSQLiteStore(root)
	if err != nil {
		return nil, err
	}

	return &toolContext{
		root:    root,
		cfg:     cfg,
		log:     logging.NewLogger(cfg.Logging.Level, os.Stderr),
		trace:   logging.NewTraceLogger(filepath.Join(root, ".synthsim"), cfg.Logging.Level),
		store:   s,
		jsonOut: jsonOut,
	}, nil
}

func (tc *toolContext) close() {
	tc.store.Close()
	tc.trace.Close()
}

// loadScorecard reads and validates a scorecard YAML file.
func loadScorecard(path string) (scorecard.Scorecard, error) {
	var card scorecard.Scorecard
	data, err := os.ReadFile(path)
	if err != nil {
		return card, fmt.Errorf("read scorecard: %w", err)
	}
	if err := yaml.Unmarshal(data, &card); err != nil {
		return card, fmt.Errorf("parse scorecard %s: %w", pathutil.RedactPath(path), err)
	}
	if err := card.Validate(); err != nil {
		return card, err
	}
	return card, nil
}

// loadCatalog returns the scenario catalog, merging an external file over
// the built-ins when one is given.
func loadCatalog(path string) (*scenario.Catalog, error) {
	if path == "" {
		return scenario.Builtin(), nil
	}
	return scenario.LoadFile(path)
}
