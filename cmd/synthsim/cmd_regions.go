package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"synthsim/internal/regions"
)

// newRegionsCmd creates the 'regions' command, which explains a stored run
// by extracting failure-prone regions of the persona feature space.
func newRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Extract failure-prone persona regions from a run",
		Long: `Fits a shallow rule tree over a stored run's per-persona outcomes and
prints the feature-space regions with elevated failure rates.

Examples:
  synthsim regions --run 4f6b...
  synthsim regions --run 4f6b... --min-failure-rate 0.4 --json`,
		RunE: runRegions,
	}

	cmd.Flags().String("run", "", "Run ID to analyze (required)")
	cmd.Flags().Float64("min-failure-rate", 0, "Minimum failure rate to report (default from config)")
	cmd.Flags().Int("max-depth", 0, "Maximum rule depth (default from config)")
	cmd.MarkFlagRequired("run")

	return cmd
}

func runRegions(cmd *cobra.Command, args []string) error {
	tc, err := setup(cmd)
	if err != nil {
		return err
	}
	defer tc.close()

	runID, _ := cmd.Flags().GetString("run")
	minRate, _ := cmd.Flags().GetFloat64("min-failure-rate")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")

	run, err := tc.store.GetRun(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("load run %s: %w", runID, err)
	}

	opts := regions.DefaultOptions()
	opts.MinFailureRate = tc.cfg.Analysis.MinFailureRate
	opts.MaxDepth = tc.cfg.Analysis.MaxDepth
	if minRate > 0 {
		opts.MinFailureRate = minRate
	}
	if maxDepth > 0 {
		opts.MaxDepth = maxDepth
	}

	rules := regions.NewAnalyzer(opts, tc.log).Analyze(run.Outcomes)
	tc.trace.Log(map[string]any{
		"event":   "regions_analyzed",
		"run_id":  runID,
		"regions": len(rules),
	})

	if tc.jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(rules)
	}

	out := cmd.OutOrStdout()
	if len(rules) == 0 {
		fmt.Fprintln(out, "No failure-prone regions found.")
		return nil
	}
	for i, r := range rules {
		fmt.Fprintf(out, "%d. %s\n   %d synths, %.1f%% failure\n",
			i+1, r.String(), r.SynthCount, r.FailureRate*100)
	}
	return nil
}
