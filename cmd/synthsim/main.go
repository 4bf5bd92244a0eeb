package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "synthsim",
		Short: "Monte-Carlo behavioral-outcome simulation for synthetic personas",
		Long: `synthsim estimates how a synthetic population responds to a feature.

Given a persona population, a feature scorecard, and a usage scenario, it
runs Monte-Carlo trials per persona and reports the distribution over
did-not-try, failed, and succeeded outcomes, then explains the results via
failure-region extraction and scorecard sensitivity analysis.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenCmd(),
		newRunCmd(),
		newRegionsCmd(),
		newSensitivityCmd(),
		newScenariosCmd(),
		newArchiveCmd(),
		newRestoreCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "synthsim version %s\n", version)
			}
		},
	}
}
