package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ml-artifact-pipeline/internal/config"
)

func TestApplyFlagOverrides(t *testing.T) {
	cfg := &config.Config{}
	cfg.Artifacts.ModelsDir = "/app/models"
	cfg.Artifacts.PredictionsDir = "/app/predictions"

	rootFlags.modelsDir = "/tmp/models"
	rootFlags.predictionsDir = ""
	defer func() { rootFlags.modelsDir, rootFlags.predictionsDir = "", "" }()

	applyFlagOverrides(cfg)

	assert.Equal(t, "/tmp/models", cfg.Artifacts.ModelsDir)
	assert.Equal(t, "/app/predictions", cfg.Artifacts.PredictionsDir)
}

func TestDirectoryFlagsRegistered(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("models-dir"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("predictions-dir"))
	assert.NotNil(t, cleanupCmd.Flags().Lookup("keep"))
}
