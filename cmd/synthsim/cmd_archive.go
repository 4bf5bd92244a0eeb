package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"synthsim/internal/archive"
	"synthsim/internal/pathutil"
)

// newArchiveCmd creates the 'archive' command, which snapshots the stored
// population and runs to a portable file.
func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Snapshot the population and runs to a file",
		Long: `Exports all stored personas and runs to a compressed, checksummed
snapshot file. Archives live under the project's .synthsim/archives/ or
~/.synthsim/archives/; --out may name any path inside those directories.

Examples:
  synthsim archive
  synthsim archive --out .synthsim/archives/before-rebalance.json.gz
  synthsim archive --keep 5`,
		RunE: runArchive,
	}

	cmd.Flags().String("out", "", "Output path (default: timestamped file under .synthsim/archives)")
	cmd.Flags().Int("keep", 0, "After archiving, keep only the N newest archives (0 = keep all)")
	cmd.Flags().String("max-age", "", "After archiving, drop archives older than this (e.g. 30d, 2w)")

	return cmd
}

func runArchive(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	keep, _ := cmd.Flags().GetInt("keep")
	maxAge, _ := cmd.Flags().GetString("max-age")

	tc, err := setup(cmd)
	if err != nil {
		return err
	}
	defer tc.close()

	dir := filepath.Join(tc.root, ".synthsim", "archives")
	if out == "" {
		out = archive.Path(dir)
	}
	allowed, err := pathutil.ArchiveDirs(tc.root)
	if err != nil {
		return err
	}
	if err := pathutil.ValidateWithin(out, allowed...); err != nil {
		return err
	}

	snap, err := archive.Write(cmd.Context(), tc.store, out)
	if err != nil {
		return err
	}
	tc.log.Info("archive written", "path", out,
		"personas", len(snap.Personas), "runs", len(snap.Runs))

	var deleted []string
	if policy, err := retentionPolicy(keep, maxAge); err != nil {
		return err
	} else if policy != nil {
		deleted, err = archive.ApplyRetention(dir, policy)
		if err != nil {
			return fmt.Errorf("apply retention: %w", err)
		}
	}

	if tc.jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
			"path":     out,
			"personas": len(snap.Personas),
			"runs":     len(snap.Runs),
			"deleted":  len(deleted),
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Archived %d personas and %d runs to %s\n",
		len(snap.Personas), len(snap.Runs), out)
	if len(deleted) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d old archive(s)\n", len(deleted))
	}
	return nil
}

// retentionPolicy builds the union policy from the flags, nil when both are unset.
func retentionPolicy(keep int, maxAge string) (archive.RetentionPolicy, error) {
	var policies []archive.RetentionPolicy
	if keep > 0 {
		policies = append(policies, &archive.CountPolicy{MaxCount: keep})
	}
	if maxAge != "" {
		age, err := archive.ParseDuration(maxAge)
		if err != nil {
			return nil, fmt.Errorf("parse --max-age: %w", err)
		}
		policies = append(policies, &archive.AgePolicy{MaxAge: age})
	}
	switch len(policies) {
	case 0:
		return nil, nil
	case 1:
		return policies[0], nil
	default:
		return &archive.CompositePolicy{Policies: policies}, nil
	}
}

// newRestoreCmd creates the 'restore' command, which imports a snapshot file.
func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <archive-file>",
		Short: "Restore personas and runs from a snapshot file",
		Long: `Imports a snapshot produced by 'synthsim archive'. In merge mode
(the default) existing runs are kept and runs already present are skipped;
in replace mode the stored population is overwritten.

Examples:
  synthsim restore .synthsim/archives/synthsim-archive-20260830-120000.json.gz
  synthsim restore snapshot.json.gz --mode replace`,
		Args: cobra.ExactArgs(1),
		RunE: runRestore,
	}

	cmd.Flags().String("mode", "merge", "Restore mode: merge or replace")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string) error {
	modeStr, _ := cmd.Flags().GetString("mode")
	mode := archive.RestoreMode(modeStr)
	if mode != archive.RestoreMerge && mode != archive.RestoreReplace {
		return fmt.Errorf("invalid --mode %q (want merge or replace)", modeStr)
	}

	tc, err := setup(cmd)
	if err != nil {
		return err
	}
	defer tc.close()

	result, err := archive.Restore(cmd.Context(), tc.store, args[0], mode)
	if err != nil {
		return err
	}
	tc.log.Info("archive restored", "path", args[0], "mode", modeStr,
		"personas", result.PersonasRestored, "runs", result.RunsRestored)

	if tc.jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d personas, %d runs (%d skipped)\n",
		result.PersonasRestored, result.RunsRestored, result.RunsSkipped)
	return nil
}
