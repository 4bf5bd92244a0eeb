package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"synthsim/internal/engine"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "synthsim",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	return rootCmd
}

// execute runs a subcommand under a test root and returns its stdout.
func execute(t *testing.T, sub *cobra.Command, args ...string) string {
	t.Helper()
	root := newTestRootCmd()
	root.AddCommand(sub)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\noutput: %s", args, err, out.String())
	}
	return out.String()
}

// writeScorecard writes a valid scorecard YAML file into dir.
func writeScorecard(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "feature.yaml")
	content := `complexity:     {value: 0.4, min: 0.3, max: 0.5}
initial_effort: {value: 0.3, min: 0.2, max: 0.4}
perceived_risk: {value: 0.2, min: 0.1, max: 0.3}
time_to_value:  {value: 0.5, min: 0.4, max: 0.6}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCmd(t *testing.T) {
	out := execute(t, newVersionCmd(), "version", "--json")
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("version --json produced invalid JSON: %v\n%s", err, out)
	}
	if got["version"] == "" {
		t.Error("version missing from JSON output")
	}
}

func TestScenariosCmd(t *testing.T) {
	out := execute(t, newScenariosCmd(), "scenarios")
	for _, want := range []string{"baseline", "crisis", "onboarding-rush", "low-stakes-sandbox"} {
		if !strings.Contains(out, want) {
			t.Errorf("scenarios output missing %q:\n%s", want, out)
		}
	}
}

func TestGenRunRegionsFlow(t *testing.T) {
	dir := t.TempDir()
	scorecardPath := writeScorecard(t, dir)

	out := execute(t, newGenCmd(), "gen", "--root", dir, "--count", "60", "--seed", "7")
	if !strings.Contains(out, "Generated 60 personas") {
		t.Fatalf("unexpected gen output:\n%s", out)
	}

	runOut := execute(t, newRunCmd(),
		"run", "--root", dir, "--scorecard", scorecardPath,
		"--executions", "40", "--seed", "42", "--json")
	var run engine.Run
	if err := json.Unmarshal([]byte(runOut), &run); err != nil {
		t.Fatalf("run --json produced invalid JSON: %v", err)
	}
	if run.State != engine.RunCompleted {
		t.Fatalf("run state = %s, want completed", run.State)
	}
	if len(run.Outcomes) != 60 {
		t.Fatalf("run outcomes = %d, want 60", len(run.Outcomes))
	}

	// Regions over the stored run must not error, whatever it finds.
	regionsOut := execute(t, newRegionsCmd(), "regions", "--root", dir, "--run", run.ID)
	if regionsOut == "" {
		t.Error("regions produced no output")
	}
}

func TestRunCmd_RequiresPopulation(t *testing.T) {
	dir := t.TempDir()
	scorecardPath := writeScorecard(t, dir)

	root := newTestRootCmd()
	root.AddCommand(newRunCmd())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--root", dir, "--scorecard", scorecardPath})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "synthsim gen") {
		t.Errorf("expected missing-population error, got %v", err)
	}
}

func TestRunCmd_RejectsInvalidScorecard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := "complexity: {value: 0.4, min: 0.6, max: 0.2}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newTestRootCmd()
	root.AddCommand(newRunCmd())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--root", dir, "--scorecard", path})
	if err := root.Execute(); err == nil {
		t.Error("run accepted a scorecard with min > max")
	}
}

func TestSensitivityCmd(t *testing.T) {
	dir := t.TempDir()
	scorecardPath := writeScorecard(t, dir)
	execute(t, newGenCmd(), "gen", "--root", dir, "--count", "45", "--seed", "3")

	out := execute(t, newSensitivityCmd(),
		"sensitivity", "--root", dir, "--scorecard", scorecardPath,
		"--executions", "30", "--delta", "-0.05", "--delta", "0.05", "--json")

	var result struct {
		Dimensions []struct {
			Dimension string  `json:"dimension"`
			Index     float64 `json:"index"`
			Rank      int     `json:"rank"`
		} `json:"dimensions"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("sensitivity --json produced invalid JSON: %v\n%s", err, out)
	}
	if len(result.Dimensions) != 4 {
		t.Fatalf("dimensions = %d, want 4", len(result.Dimensions))
	}
	if result.Dimensions[0].Rank != 1 {
		t.Errorf("first dimension rank = %d, want 1", result.Dimensions[0].Rank)
	}
}
