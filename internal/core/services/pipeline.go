package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// PipelineService sequences a full pipeline cycle:
// LoadData -> Train -> Persist -> ValidateModel -> Predict ->
// PersistPredictions -> ValidatePredictions -> Cleanup. The first failing
// stage moves the run to Failed and no later stage executes, mirroring the
// chain-stop semantics of an external stage-per-process scheduler.
type PipelineService struct {
	training   *TrainingService
	prediction *PredictionService
	validation *ValidationService
	retention  *RetentionService
	ledger     ports.RunLedger // optional
	keepCount  int
}

func NewPipelineService(
	training *TrainingService,
	prediction *PredictionService,
	validation *ValidationService,
	retention *RetentionService,
	ledger ports.RunLedger,
	keepCount int,
) *PipelineService {
	if keepCount < 1 {
		keepCount = DefaultKeepCount
	}
	return &PipelineService{
		training:   training,
		prediction: prediction,
		validation: validation,
		retention:  retention,
		ledger:     ledger,
		keepCount:  keepCount,
	}
}

// stageFunc executes one stage and reports a human-readable detail. A nil
// error advances the machine; a non-nil error is absorbing.
type stageFunc func(ctx context.Context) (string, error)

// Run executes a complete cycle and returns its report. Stage failures are
// carried in the returned run, not as an error; Run itself only ever
// reflects outcomes.
func (s *PipelineService) Run(ctx context.Context) *domain.PipelineRun {
	run := &domain.PipelineRun{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Status:    domain.RunStatusRunning,
	}
	s.ledgerCreate(ctx, run)
	log.WithField("run_id", run.ID).Info("pipeline run started")

	var (
		trainData   *domain.Dataset
		learner     ports.Learner
		metrics     domain.ModelMetrics
		predictions *domain.PredictionSet
	)

	stages := map[domain.Stage]stageFunc{
		domain.StageLoadData: func(ctx context.Context) (string, error) {
			ds, err := s.training.LoadData(ctx)
			if err != nil {
				return "", err
			}
			trainData = ds
			return fmt.Sprintf("loaded %d rows, %d features", ds.Rows(), ds.Cols()), nil
		},
		domain.StageTrain: func(ctx context.Context) (string, error) {
			var err error
			learner, metrics, err = s.training.Fit(trainData)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("accuracy %.4f on %d held-out samples", metrics.Accuracy, metrics.TestSamples), nil
		},
		domain.StagePersist: func(ctx context.Context) (string, error) {
			report, err := s.training.PersistModel(ctx, learner, metrics)
			if err != nil {
				return "", err
			}
			s.ledgerArtifact(ctx, run.ID, report.ModelVersion)
			s.ledgerArtifact(ctx, run.ID, report.MetricsVersion)
			return fmt.Sprintf("model %s", report.ModelVersion.Path), nil
		},
		domain.StageValidateModel: func(ctx context.Context) (string, error) {
			verdict := s.validation.ValidateModel(ctx)
			s.ledgerVerdict(ctx, run.ID, domain.StageValidateModel, verdict)
			if !verdict.Passed {
				return verdict.Reason, fmt.Errorf("%w: %s", domain.ErrValidationFailed, verdict.Reason)
			}
			return verdict.Reason, nil
		},
		domain.StagePredict: func(ctx context.Context) (string, error) {
			ds, err := s.prediction.LoadData(ctx)
			if err != nil {
				return "", err
			}
			predictions, err = s.prediction.Predict(ctx, ds)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("scored %d rows", len(predictions.Rows)), nil
		},
		domain.StagePersistPredictions: func(ctx context.Context) (string, error) {
			version, err := s.prediction.PersistPredictions(ctx, predictions)
			if err != nil {
				return "", err
			}
			s.ledgerArtifact(ctx, run.ID, version)
			return fmt.Sprintf("predictions %s", version.Path), nil
		},
		domain.StageValidatePredictions: func(ctx context.Context) (string, error) {
			verdict := s.validation.ValidatePredictions(ctx)
			s.ledgerVerdict(ctx, run.ID, domain.StageValidatePredictions, verdict)
			if !verdict.Passed {
				return verdict.Reason, fmt.Errorf("%w: %s", domain.ErrValidationFailed, verdict.Reason)
			}
			return verdict.Reason, nil
		},
		domain.StageCleanup: func(ctx context.Context) (string, error) {
			results, err := s.retention.EnforceAll(ctx, s.keepCount)
			if err != nil {
				return "", err
			}
			deleted, failures := 0, 0
			for _, r := range results {
				deleted += len(r.Deleted)
				failures += r.Failed
			}
			return fmt.Sprintf("deleted %d old artifacts (%d failures)", deleted, failures), nil
		},
	}

	for _, stage := range domain.StageOrder {
		result := runStage(ctx, stage, stages[stage])
		run.Stages = append(run.Stages, result)
		if result.Err != nil {
			run.Status = domain.RunStatusFailed
			run.FailedStage = stage
			run.Error = result.Err.Error()
			break
		}
	}
	if run.Status == domain.RunStatusRunning {
		run.Status = domain.RunStatusSucceeded
	}
	run.FinishedAt = time.Now()
	s.ledgerFinish(ctx, run)

	log.WithFields(log.Fields{
		"run_id": run.ID,
		"status": run.Status,
	}).Info("pipeline run finished")
	return run
}

func runStage(ctx context.Context, stage domain.Stage, fn stageFunc) domain.StageResult {
	result := domain.StageResult{Stage: stage, StartedAt: time.Now()}
	detail, err := fn(ctx)
	result.FinishedAt = time.Now()
	result.Detail = detail
	if err != nil {
		result.Status = domain.StageStatusFailed
		result.Err = err
		if detail == "" {
			result.Detail = err.Error()
		}
		log.WithError(err).WithField("stage", stage).Error("pipeline stage failed")
		return result
	}
	result.Status = domain.StageStatusSucceeded
	log.WithFields(log.Fields{"stage": stage, "detail": detail}).Info("pipeline stage completed")
	return result
}

// Ledger recording is bookkeeping, never a stage outcome: failures are
// logged and swallowed.
func (s *PipelineService) ledgerCreate(ctx context.Context, run *domain.PipelineRun) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.CreateRun(ctx, run); err != nil {
		log.WithError(err).Warn("record run start failed")
	}
}

func (s *PipelineService) ledgerFinish(ctx context.Context, run *domain.PipelineRun) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.FinishRun(ctx, run); err != nil {
		log.WithError(err).Warn("record run finish failed")
	}
}

func (s *PipelineService) ledgerArtifact(ctx context.Context, runID uuid.UUID, version *domain.ArtifactVersion) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.RecordArtifact(ctx, runID, version); err != nil {
		log.WithError(err).Warn("record artifact failed")
	}
}

func (s *PipelineService) ledgerVerdict(ctx context.Context, runID uuid.UUID, stage domain.Stage, verdict domain.ValidationVerdict) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.RecordVerdict(ctx, runID, stage, verdict); err != nil {
		log.WithError(err).Warn("record verdict failed")
	}
}
