package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ml-artifact-pipeline/internal/adapters/secondary/centroid"
	"ml-artifact-pipeline/internal/adapters/secondary/datasource"
	"ml-artifact-pipeline/internal/adapters/secondary/fsstore"
	"ml-artifact-pipeline/internal/adapters/secondary/objectstore"
	"ml-artifact-pipeline/internal/adapters/secondary/postgres"
	"ml-artifact-pipeline/internal/config"
	ports "ml-artifact-pipeline/internal/core/ports/output"
	"ml-artifact-pipeline/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mlpipeline",
	Short: "Versioned ML artifact lifecycle: train, validate, predict, retain",
	Long: "mlpipeline manages a filesystem store of versioned model, metrics and\n" +
		"prediction artifacts with an atomic latest pointer per class, a validation\n" +
		"gate in front of inference, and timestamp-ordered retention.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

var rootFlags struct {
	modelsDir      string
	predictionsDir string
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.modelsDir, "models-dir", "",
		"Model and metrics artifact directory (default: ARTIFACTS_MODELS_DIR)")
	pf.StringVar(&rootFlags.predictionsDir, "predictions-dir", "",
		"Prediction artifact directory (default: ARTIFACTS_PREDICTIONS_DIR)")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(validateModelCmd)
	rootCmd.AddCommand(validatePredictionsCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

// app holds the wired adapters shared by every subcommand. The ledger and
// mirror stay nil when their config sections are disabled.
type app struct {
	cfg    *config.Config
	store  *fsstore.Store
	codec  ports.ModelCodec
	mirror ports.ArtifactMirror
	ledger ports.RunLedger
	pool   *pgxpool.Pool
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(cfg)
	initLogger(cfg)

	store, err := fsstore.New(cfg.Artifacts.ModelsDir, cfg.Artifacts.PredictionsDir)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}

	a := &app{
		cfg:   cfg,
		store: store,
		codec: centroid.Codec{},
	}

	if cfg.ObjectStore.Enabled {
		mirror, err := objectstore.NewMirror(objectstore.Config{
			Endpoint:  cfg.ObjectStore.Endpoint,
			AccessKey: cfg.ObjectStore.AccessKey,
			SecretKey: cfg.ObjectStore.SecretKey,
			Region:    cfg.ObjectStore.Region,
			UseSSL:    cfg.ObjectStore.UseSSL,
			Bucket:    cfg.ObjectStore.Bucket,
		})
		if err != nil {
			log.Warnf("object store mirror init failed (continuing without mirroring): %v", err)
		} else {
			a.mirror = mirror
			log.Info("object store mirror initialized")
		}
	}

	if cfg.Database.Enabled {
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("parse db config: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("create db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping db: %w", err)
		}
		a.pool = pool
		a.ledger = postgres.NewRunLedgerRepository(pool)
		log.Info("run ledger database connected")
	}

	return a, nil
}

// applyFlagOverrides lets directory flags win over env config, so one binary
// can target several stores without re-exporting variables.
func applyFlagOverrides(cfg *config.Config) {
	if rootFlags.modelsDir != "" {
		cfg.Artifacts.ModelsDir = rootFlags.modelsDir
	}
	if rootFlags.predictionsDir != "" {
		cfg.Artifacts.PredictionsDir = rootFlags.predictionsDir
	}
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *app) trainingSource() ports.DataSource {
	t := a.cfg.Training
	switch {
	case t.DataPath != "":
		return datasource.CSVFile{Path: t.DataPath}
	case t.DataURL != "":
		return datasource.HTTP{URL: t.DataURL}
	default:
		return datasource.Synthetic{
			Samples:  t.Samples,
			Features: t.Features,
			Classes:  t.Classes,
			Labeled:  true,
			Seed:     t.Seed,
		}
	}
}

func (a *app) predictionSource() ports.DataSource {
	p := a.cfg.Prediction
	switch {
	case p.DataPath != "":
		return datasource.CSVFile{Path: p.DataPath}
	case p.DataURL != "":
		return datasource.HTTP{URL: p.DataURL}
	default:
		return datasource.Synthetic{
			Samples:  p.Samples,
			Features: a.cfg.Training.Features,
			Classes:  a.cfg.Training.Classes,
			Labeled:  false,
			Seed:     p.Seed,
		}
	}
}

func (a *app) trainingService() *services.TrainingService {
	return services.NewTrainingService(
		a.trainingSource(),
		func() ports.Learner { return centroid.New() },
		a.store,
		a.mirror,
	)
}

func (a *app) predictionService() *services.PredictionService {
	return services.NewPredictionService(a.predictionSource(), a.store, a.codec, a.mirror)
}

func (a *app) validationService() *services.ValidationService {
	return services.NewValidationService(a.store, a.codec, a.cfg.Artifacts.MinAccuracy)
}

func (a *app) retentionService() *services.RetentionService {
	return services.NewRetentionService(a.store)
}

func (a *app) pipelineService() *services.PipelineService {
	return services.NewPipelineService(
		a.trainingService(),
		a.predictionService(),
		a.validationService(),
		a.retentionService(),
		a.ledger,
		a.cfg.Artifacts.KeepCount,
	)
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
