package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// DefaultMinAccuracy is the minimum acceptable model accuracy.
const DefaultMinAccuracy = 0.5

// ValidationService inspects stored artifacts and produces pass/fail
// verdicts. It is a gate, not a crash point: every failure mode is
// downgraded into a verdict so the driver can make a policy decision.
type ValidationService struct {
	store       ports.ArtifactStore
	codec       ports.ModelCodec
	minAccuracy float64
}

func NewValidationService(store ports.ArtifactStore, codec ports.ModelCodec, minAccuracy float64) *ValidationService {
	if minAccuracy <= 0 {
		minAccuracy = DefaultMinAccuracy
	}
	return &ValidationService{store: store, codec: codec, minAccuracy: minAccuracy}
}

// ValidateModel checks that the latest model exists, decodes, and (when a
// metrics document is present) meets the accuracy floor. A model without
// metrics passes with a warning reason.
func (s *ValidationService) ValidateModel(ctx context.Context) domain.ValidationVerdict {
	_, payload, err := s.store.ReadLatest(ctx, domain.ClassModel)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return failed("model artifact not found")
		}
		return failed(fmt.Sprintf("read model artifact: %v", err))
	}

	learner, err := s.codec.Decode(payload)
	if err != nil {
		return failed(fmt.Sprintf("model cannot be decoded: %v", err))
	}
	log.WithField("classes", len(learner.Classes())).Info("model decoded")

	_, metricsPayload, err := s.store.ReadLatest(ctx, domain.ClassMetrics)
	if errors.Is(err, domain.ErrArtifactNotFound) {
		return domain.ValidationVerdict{
			Passed: true,
			Reason: "model present but no metrics document recorded",
		}
	}
	if err != nil {
		return failed(fmt.Sprintf("read metrics document: %v", err))
	}

	metrics, err := domain.DecodeModelMetrics(metricsPayload)
	if err != nil {
		return failed(fmt.Sprintf("metrics document unreadable: %v", err))
	}

	measured := map[string]float64{
		"accuracy":     metrics.Accuracy,
		"test_samples": float64(metrics.TestSamples),
	}
	if metrics.Accuracy < s.minAccuracy {
		return domain.ValidationVerdict{
			Passed:  false,
			Reason:  fmt.Sprintf("model accuracy %.4f below minimum %.2f", metrics.Accuracy, s.minAccuracy),
			Metrics: measured,
		}
	}
	return domain.ValidationVerdict{
		Passed:  true,
		Reason:  fmt.Sprintf("model accuracy %.4f", metrics.Accuracy),
		Metrics: measured,
	}
}

// ValidatePredictions checks that the latest prediction table exists and is
// non-empty, and summarizes its confidence distribution.
func (s *ValidationService) ValidatePredictions(ctx context.Context) domain.ValidationVerdict {
	_, payload, err := s.store.ReadLatest(ctx, domain.ClassPredictionSet)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return failed("predictions artifact not found")
		}
		return failed(fmt.Sprintf("read predictions artifact: %v", err))
	}

	set, err := domain.DecodePredictionSet(payload)
	if err != nil {
		return failed(fmt.Sprintf("prediction table unreadable: %v", err))
	}
	if len(set.Rows) == 0 {
		return failed("no predictions found in file")
	}

	confidences := make([]float64, len(set.Rows))
	distinct := make(map[int]struct{})
	for i, row := range set.Rows {
		confidences[i] = row.Confidence
		distinct[row.PredictedClass] = struct{}{}
	}

	summary := map[string]float64{
		"total_predictions":  float64(len(set.Rows)),
		"unique_classes":     float64(len(distinct)),
		"average_confidence": stat.Mean(confidences, nil),
		"min_confidence":     floats.Min(confidences),
		"max_confidence":     floats.Max(confidences),
	}
	log.WithFields(log.Fields{
		"rows":            len(set.Rows),
		"unique_classes":  len(distinct),
		"mean_confidence": summary["average_confidence"],
	}).Info("prediction summary")

	return domain.ValidationVerdict{
		Passed:  true,
		Reason:  fmt.Sprintf("%d predictions across %d classes", len(set.Rows), len(distinct)),
		Metrics: summary,
	}
}

func failed(reason string) domain.ValidationVerdict {
	return domain.ValidationVerdict{Passed: false, Reason: reason}
}
