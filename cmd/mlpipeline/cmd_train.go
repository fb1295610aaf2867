package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit a model and persist it with its metrics document",
	Long: `Loads the training dataset, fits a classifier on an 80/20 split, and
persists the model and its accuracy metrics as new timestamped versions.
Both latest aliases are repointed atomically after each write.`,
	RunE: runTrain,
}

func runTrain(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.trainingService().Train(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Model:    %s\n", report.ModelVersion.Path)
	fmt.Printf("Metrics:  %s\n", report.MetricsVersion.Path)
	fmt.Printf("Accuracy: %.4f (%d test samples)\n",
		report.Metrics.Accuracy, report.Metrics.TestSamples)
	return nil
}
