package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a dataset with the latest model and persist the predictions",
	Long: `Resolves the latest model, scores the prediction dataset with class
probabilities, and persists the result as a new timestamped CSV version.`,
	RunE: runPredict,
}

func runPredict(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	version, err := a.predictionService().Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Predictions: %s\n", version.Path)
	return nil
}
