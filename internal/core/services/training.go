package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// LearnerFactory builds a fresh, unfitted learner for each training cycle.
type LearnerFactory func() ports.Learner

// TrainReport carries everything the Train stage produced for downstream
// stages and the ledger.
type TrainReport struct {
	ModelVersion   *domain.ArtifactVersion
	MetricsVersion *domain.ArtifactVersion
	Metrics        domain.ModelMetrics
}

// TrainingService runs the train half of the pipeline: load, fit on an
// 80/20 split, evaluate on the held-out fraction, persist model plus
// metrics document.
type TrainingService struct {
	source     ports.DataSource
	newLearner LearnerFactory
	store      ports.ArtifactStore
	mirror     ports.ArtifactMirror // optional
	splitSeed  int64
}

func NewTrainingService(source ports.DataSource, newLearner LearnerFactory, store ports.ArtifactStore, mirror ports.ArtifactMirror) *TrainingService {
	return &TrainingService{
		source:     source,
		newLearner: newLearner,
		store:      store,
		mirror:     mirror,
		splitSeed:  42,
	}
}

func (s *TrainingService) LoadData(ctx context.Context) (*domain.Dataset, error) {
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ds.Rows() == 0 {
		return nil, domain.ErrEmptyDataset
	}
	return ds, nil
}

const testFraction = 0.2

// Fit trains a fresh learner on a shuffled 80/20 split and measures
// held-out accuracy.
func (s *TrainingService) Fit(ds *domain.Dataset) (ports.Learner, domain.ModelMetrics, error) {
	if !ds.Labeled {
		return nil, domain.ModelMetrics{}, domain.ErrUnlabeledDataset
	}

	perm := rand.New(rand.NewSource(s.splitSeed)).Perm(ds.Rows())
	nTest := int(float64(ds.Rows()) * testFraction)
	if nTest == 0 && ds.Rows() > 1 {
		nTest = 1
	}

	trainX := make([][]float64, 0, ds.Rows()-nTest)
	trainY := make([]int, 0, ds.Rows()-nTest)
	testX := make([][]float64, 0, nTest)
	testY := make([]int, 0, nTest)
	for i, idx := range perm {
		if i < nTest {
			testX = append(testX, ds.Features[idx])
			testY = append(testY, ds.Labels[idx])
		} else {
			trainX = append(trainX, ds.Features[idx])
			trainY = append(trainY, ds.Labels[idx])
		}
	}
	log.WithFields(log.Fields{"train": len(trainX), "test": len(testX)}).Info("training model")

	learner := s.newLearner()
	if err := learner.Fit(trainX, trainY); err != nil {
		return nil, domain.ModelMetrics{}, fmt.Errorf("fit model: %w", err)
	}

	predicted, err := learner.Predict(testX)
	if err != nil {
		return nil, domain.ModelMetrics{}, fmt.Errorf("evaluate model: %w", err)
	}
	correct := 0
	for i := range predicted {
		if predicted[i] == testY[i] {
			correct++
		}
	}
	accuracy := 0.0
	if len(testY) > 0 {
		accuracy = float64(correct) / float64(len(testY))
	}
	log.WithField("accuracy", accuracy).Info("model evaluated")

	return learner, domain.NewModelMetrics(accuracy, len(testY), time.Now()), nil
}

// PersistModel writes the fitted model and its metrics document, repointing
// both latest aliases. The metrics write follows the model write so a
// failure cannot leave metrics describing a model that was never stored.
func (s *TrainingService) PersistModel(ctx context.Context, learner ports.Learner, metrics domain.ModelMetrics) (*TrainReport, error) {
	payload, err := learner.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize model: %w", err)
	}
	modelVersion, err := s.store.Persist(ctx, domain.ClassModel, payload)
	if err != nil {
		return nil, err
	}
	s.mirrorUpload(ctx, modelVersion, payload)

	doc, err := metrics.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode metrics document: %w", err)
	}
	metricsVersion, err := s.store.Persist(ctx, domain.ClassMetrics, doc)
	if err != nil {
		return nil, err
	}
	s.mirrorUpload(ctx, metricsVersion, doc)

	return &TrainReport{
		ModelVersion:   modelVersion,
		MetricsVersion: metricsVersion,
		Metrics:        metrics,
	}, nil
}

// Train runs the full training sequence in-process: load, fit, persist.
func (s *TrainingService) Train(ctx context.Context) (*TrainReport, error) {
	ds, err := s.LoadData(ctx)
	if err != nil {
		return nil, err
	}
	learner, metrics, err := s.Fit(ds)
	if err != nil {
		return nil, err
	}
	return s.PersistModel(ctx, learner, metrics)
}

func (s *TrainingService) mirrorUpload(ctx context.Context, version *domain.ArtifactVersion, payload []byte) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Upload(ctx, version, payload); err != nil {
		log.WithError(err).WithField("path", version.Path).Warn("artifact mirror upload failed")
	}
}
