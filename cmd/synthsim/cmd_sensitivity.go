package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"synthsim/internal/engine"
	"synthsim/internal/model"
	"synthsim/internal/sensitivity"
)

// newSensitivityCmd creates the 'sensitivity' command, which runs a baseline
// simulation and then ranks scorecard dimensions by outcome impact.
func newSensitivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Rank scorecard dimensions by outcome impact (OAT)",
		Long: `Runs a baseline simulation over the stored population, then re-runs it
with each scorecard dimension perturbed one at a time and ranks dimensions
by how much they move the population success rate.

Examples:
  synthsim sensitivity --scorecard feature.yaml
  synthsim sensitivity --scorecard feature.yaml --scenario crisis --json`,
		RunE: runSensitivity,
	}

	cmd.Flags().String("scorecard", "", "Scorecard YAML file (required)")
	cmd.Flags().String("scenario", "baseline", "Scenario name")
	cmd.Flags().String("catalog", "", "Scenario catalog YAML file (optional)")
	cmd.Flags().Int("executions", 0, "Executions per persona (default from config)")
	cmd.Flags().Int64("seed", 42, "Simulation seed")
	cmd.Flags().Float64Slice("delta", nil, "Perturbation deltas (default from config)")
	cmd.MarkFlagRequired("scorecard")

	return cmd
}

func runSensitivity(cmd *cobra.Command, args []string) error {
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
	deltas, _ := cmd.Flags().GetFloat64Slice("delta")

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
	if len(deltas) == 0 {
		deltas = tc.cfg.Analysis.Deltas
	}
	cfg := engine.Config{
		NSynths:     len(personas),
		NExecutions: executions,
		Sigma:       tc.cfg.Engine.Sigma,
		Seed:        seed,
		Parallelism: tc.cfg.Engine.Parallelism,
	}

	eng := engine.NewEngine(model.DefaultWeights(), tc.log)
	baseline, err := eng.Run(cmd.Context(), personas, card, scn, cfg)
	if err != nil {
		return err
	}
	if err := tc.store.SaveRun(cmd.Context(), baseline); err != nil {
		return fmt.Errorf("store baseline run: %w", err)
	}

	result, err := sensitivity.NewAnalyzer(eng, tc.log).Analyze(cmd.Context(), baseline, deltas)
	if err != nil {
		return err
	}
	tc.trace.Log(map[string]any{
		"event":           "sensitivity_analyzed",
		"baseline_run_id": result.BaselineRunID,
		"top_dimension":   result.Dimensions[0].Name,
	})

	if tc.jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Baseline run %s: %.1f%% success\n",
		result.BaselineRunID, result.BaselineSuccessRate*100)
	for _, d := range result.Dimensions {
		fmt.Fprintf(out, "%d. %-15s index %.4f\n", d.Rank, d.Name, d.Index)
		for _, do := range d.Deltas {
			fmt.Fprintf(out, "     %+.2f -> success %.1f%% (%+.2f pp)\n",
				do.Delta, do.SuccessRate*100, do.Change*100)
		}
	}
	return nil
}
