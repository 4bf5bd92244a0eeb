package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"synthsim/internal/engine"
	"synthsim/internal/model"
)

// newRunCmd creates the 'run' command, which executes one Monte-Carlo
// simulation over the stored population and persists the result.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a Monte-Carlo simulation",
		Long: `Runs N personas x M executions against a feature scorecard under a named
scenario, then stores the per-persona outcome distributions.

The population comes from 'synthsim gen'. The scorecard is a YAML file with
the four dimensions, e.g.:

  complexity:     {value: 0.4, min: 0.3, max: 0.5}
  initial_effort: {value: 0.3, min: 0.2, max: 0.4}
  perceived_risk: {value: 0.2, min: 0.1, max: 0.3}
  time_to_value:  {value: 0.5, min: 0.4, max: 0.6}

Examples:
  synthsim run --scorecard feature.yaml
  synthsim run --scorecard feature.yaml --scenario crisis --executions 200 --seed 7`,
		RunE: runRun,
	}

	cmd.Flags().String("scorecard", "", "Scorecard YAML file (required)")
	cmd.Flags().String("scenario", "baseline", "Scenario name")
	cmd.Flags().String("catalog", "", "Scenario catalog YAML file (optional)")
	cmd.Flags().Int("executions", 0, "Executions per persona (default from config)")
	cmd.Flags().Int64("seed", 42, "Simulation seed")
	cmd.Flags().Float64("sigma", 0, "Noise scale override (0 = scenario default)")
	cmd.MarkFlagRequired("scorecard")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	tc, err := setup(cmd)
	if err != nil {
		return err
	}
	defer tc.close()

	scorecardPath, _ := cmd.Flags().GetString("scorecard")
	scenarioName, _ := cmd.Flags().GetString("scenario")
	catalogPath, _ := cmd.Flags().GetString("catalog")
	executions, _ := cmd.Flags().GetInt("executions")
	seed, _ := cmd.Flags().GetInt64("seed")
	sigma, _ := cmd.Flags().GetFloat64("sigma")

	card, err := loadScorecard(scorecardPath)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}
	scn, err := catalog.Get(scenarioName)
	if err != nil {
		return err
	}

	personas, err := tc.store.ListPersonas(cmd.Context())
	if err != nil {
		return fmt.Errorf("load personas: %w", err)
	}
	if len(personas) == 0 {
		return fmt.Errorf("no personas stored; run 'synthsim gen' first")
	}

	if executions <= 0 {
		executions = tc.cfg.Engine.Executions
	}
	if sigma == 0 {
		sigma = tc.cfg.Engine.Sigma
	}
	cfg := engine.Config{
		NSynths:     len(personas),
		NExecutions: executions,
		Sigma:       sigma,
		Seed:        seed,
		Parallelism: tc.cfg.Engine.Parallelism,
	}

	eng := engine.NewEngine(model.DefaultWeights(), tc.log)
	run, err := eng.Run(cmd.Context(), personas, card, scn, cfg)
	tc.trace.Log(map[string]any{
		"event":    "run_finished",
		"run_id":   run.ID,
		"state":    string(run.State),
		"scenario": scn.Name,
		"seed":     seed,
	})
	if err != nil {
		return err
	}

	if err := tc.store.SaveRun(cmd.Context(), run); err != nil {
		return fmt.Errorf("store run: %w", err)
	}

	if tc.jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(run)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.State)
	fmt.Fprintf(out, "  scenario:   %s\n", scn.Name)
	fmt.Fprintf(out, "  population: %d personas x %d executions (%d skipped)\n",
		run.Summary.Personas, run.Summary.Executions, run.Summary.Skipped)
	fmt.Fprintf(out, "  did not try: %5.1f%%\n", run.Summary.MeanDidNotTry*100)
	fmt.Fprintf(out, "  failed:      %5.1f%%\n", run.Summary.MeanFailed*100)
	fmt.Fprintf(out, "  succeeded:   %5.1f%%\n", run.Summary.MeanSuccess*100)
	return nil
}
