package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupFlags struct {
	keep int
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old artifact versions beyond the retention budget",
	Long: `Enforces the keep-count over every artifact class, deleting the oldest
versions first. The current latest target and the alias itself are never
deleted. Individual deletion failures are reported but do not stop the sweep.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupFlags.keep, "keep", 0,
		"Versions to keep per class (default: ARTIFACTS_KEEP_COUNT)")
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	keep := cleanupFlags.keep
	if keep == 0 {
		keep = a.cfg.Artifacts.KeepCount
	}

	results, err := a.retentionService().EnforceAll(cmd.Context(), keep)
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Printf("%-12s kept=%d deleted=%d failed=%d\n",
			r.Class, r.Kept, len(r.Deleted), r.Failed)
	}
	return nil
}
