package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// PredictionService runs the inference half of the pipeline: score a feature
// table with the latest persisted model and persist the resulting table.
type PredictionService struct {
	source ports.DataSource
	store  ports.ArtifactStore
	codec  ports.ModelCodec
	mirror ports.ArtifactMirror // optional
}

func NewPredictionService(source ports.DataSource, store ports.ArtifactStore, codec ports.ModelCodec, mirror ports.ArtifactMirror) *PredictionService {
	return &PredictionService{source: source, store: store, codec: codec, mirror: mirror}
}

func (s *PredictionService) LoadData(ctx context.Context) (*domain.Dataset, error) {
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ds.Rows() == 0 {
		return nil, domain.ErrEmptyDataset
	}
	return ds, nil
}

// Predict loads the latest model and scores every row. When the input still
// carries labels, accuracy is computed and logged for information only.
func (s *PredictionService) Predict(ctx context.Context, ds *domain.Dataset) (*domain.PredictionSet, error) {
	_, payload, err := s.store.ReadLatest(ctx, domain.ClassModel)
	if err != nil {
		return nil, err
	}
	learner, err := s.codec.Decode(payload)
	if err != nil {
		return nil, err
	}

	probs, err := learner.PredictProba(ds.Features)
	if err != nil {
		return nil, fmt.Errorf("score features: %w", err)
	}

	classes := learner.Classes()
	stamp := time.Now().Format(time.RFC3339)
	set := &domain.PredictionSet{
		FeatureNames: ds.FeatureNames,
		Classes:      classes,
		Rows:         make([]domain.PredictionRow, len(probs)),
	}
	for i, p := range probs {
		win := floats.MaxIdx(p)
		set.Rows[i] = domain.PredictionRow{
			Features:       ds.Features[i],
			PredictedClass: classes[win],
			Confidence:     p[win],
			Timestamp:      stamp,
			Probabilities:  p,
		}
	}
	log.WithField("rows", len(set.Rows)).Info("predictions completed")

	if ds.Labeled {
		correct := 0
		for i, row := range set.Rows {
			if row.PredictedClass == ds.Labels[i] {
				correct++
			}
		}
		log.WithField("accuracy", float64(correct)/float64(len(set.Rows))).
			Info("prediction accuracy against provided labels")
	}
	return set, nil
}

func (s *PredictionService) PersistPredictions(ctx context.Context, set *domain.PredictionSet) (*domain.ArtifactVersion, error) {
	payload, err := set.EncodeCSV()
	if err != nil {
		return nil, fmt.Errorf("encode prediction table: %w", err)
	}
	version, err := s.store.Persist(ctx, domain.ClassPredictionSet, payload)
	if err != nil {
		return nil, err
	}
	if s.mirror != nil {
		if err := s.mirror.Upload(ctx, version, payload); err != nil {
			log.WithError(err).WithField("path", version.Path).Warn("artifact mirror upload failed")
		}
	}
	return version, nil
}

// Run executes the full prediction sequence in-process: load, score,
// persist.
func (s *PredictionService) Run(ctx context.Context) (*domain.ArtifactVersion, error) {
	ds, err := s.LoadData(ctx)
	if err != nil {
		return nil, err
	}
	set, err := s.Predict(ctx, ds)
	if err != nil {
		return nil, err
	}
	return s.PersistPredictions(ctx, set)
}
