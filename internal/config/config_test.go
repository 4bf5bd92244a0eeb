package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Engine.Executions != 100 {
		t.Errorf("Executions = %d, want 100", cfg.Engine.Executions)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Logging.Level)
	}
	if len(cfg.Analysis.Deltas) != 4 {
		t.Errorf("Deltas = %v, want 4 entries", cfg.Analysis.Deltas)
	}
	if cfg.Analysis.MinFailureRate != 0.5 || cfg.Analysis.MaxDepth != 4 {
		t.Errorf("analysis defaults = %+v", cfg.Analysis)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.Executions != Default().Engine.Executions {
		t.Errorf("Executions = %d, want default %d", cfg.Engine.Executions, Default().Engine.Executions)
	}
}

func TestLoad_File(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".synthsim")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "engine:\n  executions: 250\n  sigma: 0.08\nlogging:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.Executions != 250 {
		t.Errorf("Executions = %d, want 250", cfg.Engine.Executions)
	}
	if cfg.Engine.Sigma != 0.08 {
		t.Errorf("Sigma = %v, want 0.08", cfg.Engine.Sigma)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched sections keep defaults.
	if cfg.Analysis.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want default 4", cfg.Analysis.MaxDepth)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SYNTHSIM_LOG_LEVEL", "trace")
	t.Setenv("SYNTHSIM_EXECUTIONS", "7")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "trace" {
		t.Errorf("Level = %q, want trace", cfg.Logging.Level)
	}
	if cfg.Engine.Executions != 7 {
		t.Errorf("Executions = %d, want 7", cfg.Engine.Executions)
	}
}

func TestLoad_RejectsNonPositiveExecutions(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".synthsim")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("engine:\n  executions: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(root); err == nil {
		t.Error("Load() accepted executions = 0")
	}
}
