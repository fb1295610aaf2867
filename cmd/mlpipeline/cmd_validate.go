package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"ml-artifact-pipeline/internal/core/domain"
)

var validateModelCmd = &cobra.Command{
	Use:   "validate-model",
	Short: "Check that the latest model is loadable and meets the accuracy floor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		return reportVerdict("model", a.validationService().ValidateModel(cmd.Context()))
	},
}

var validatePredictionsCmd = &cobra.Command{
	Use:   "validate-predictions",
	Short: "Check that the latest prediction set is readable and non-empty",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		return reportVerdict("predictions", a.validationService().ValidatePredictions(cmd.Context()))
	},
}

// reportVerdict prints the verdict and returns an error on failure so the
// process exits non-zero, which is what CI gates key on.
func reportVerdict(subject string, v domain.ValidationVerdict) error {
	keys := make([]string, 0, len(v.Metrics))
	for k := range v.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s: %g\n", k, v.Metrics[k])
	}

	if !v.Passed {
		return fmt.Errorf("%s validation failed: %s", subject, v.Reason)
	}
	fmt.Printf("passed: %s\n", v.Reason)
	return nil
}
