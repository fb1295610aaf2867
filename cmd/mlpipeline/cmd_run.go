package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ml-artifact-pipeline/internal/core/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one full pipeline cycle: train, validate, predict, cleanup",
	Long: `Runs the complete pipeline as a state machine. Stages execute in order;
the first failing stage stops the run and later stages never execute. The
stage report is printed either way; a failed run exits non-zero.`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	run := a.pipelineService().Run(cmd.Context())

	fmt.Printf("Run %s: %s\n", run.ID, run.Status)
	for _, s := range run.Stages {
		line := fmt.Sprintf("  %-20s %-9s", s.Stage, s.Status)
		if s.Detail != "" {
			line += " " + s.Detail
		}
		fmt.Println(line)
	}

	if run.Status == domain.RunStatusFailed {
		return fmt.Errorf("pipeline failed at %s: %s", run.FailedStage, run.Error)
	}
	return nil
}
