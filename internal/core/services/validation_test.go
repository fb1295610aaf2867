package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ml-artifact-pipeline/internal/core/domain"
	"ml-artifact-pipeline/internal/testutil"
)

func modelVersion() *domain.ArtifactVersion {
	return &domain.ArtifactVersion{Class: domain.ClassModel, Path: "/m/ml_model_20240101_000000.gob"}
}

func metricsPayload(t *testing.T, accuracy float64) []byte {
	t.Helper()
	doc, err := domain.NewModelMetrics(accuracy, 200, time.Now()).Encode()
	require.NoError(t, err)
	return doc
}

func decodableModel(store *testutil.MockArtifactStore, codec *testutil.MockModelCodec) {
	learner := new(testutil.MockLearner)
	learner.On("Classes").Return([]int{0, 1})
	store.On("ReadLatest", mock.Anything, domain.ClassModel).Return(modelVersion(), []byte("model"), nil)
	codec.On("Decode", []byte("model")).Return(learner, nil)
}

func TestValidateModel_AccuracyThreshold(t *testing.T) {
	cases := []struct {
		accuracy float64
		want     bool
	}{
		{0.3, false},
		{0.49, false},
		{0.5, true},
		{0.95, true},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("accuracy=%.2f", tc.accuracy), func(t *testing.T) {
			store := new(testutil.MockArtifactStore)
			codec := new(testutil.MockModelCodec)
			decodableModel(store, codec)
			store.On("ReadLatest", mock.Anything, domain.ClassMetrics).
				Return(&domain.ArtifactVersion{Class: domain.ClassMetrics}, metricsPayload(t, tc.accuracy), nil)

			svc := NewValidationService(store, codec, DefaultMinAccuracy)
			verdict := svc.ValidateModel(context.Background())

			assert.Equal(t, tc.want, verdict.Passed, verdict.Reason)
			assert.Equal(t, tc.accuracy, verdict.Metrics["accuracy"])
		})
	}
}

func TestValidateModel_MissingModelFailsClosed(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("ReadLatest", mock.Anything, domain.ClassModel).
		Return(nil, nil, domain.ErrArtifactNotFound)

	svc := NewValidationService(store, new(testutil.MockModelCodec), DefaultMinAccuracy)
	verdict := svc.ValidateModel(context.Background())

	assert.False(t, verdict.Passed)
	assert.Contains(t, verdict.Reason, "not found")
}

func TestValidateModel_UndecodableFailsClosed(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	codec := new(testutil.MockModelCodec)
	store.On("ReadLatest", mock.Anything, domain.ClassModel).
		Return(modelVersion(), []byte("garbage"), nil)
	codec.On("Decode", []byte("garbage")).Return(nil, domain.ErrModelUndecodable)

	svc := NewValidationService(store, codec, DefaultMinAccuracy)
	verdict := svc.ValidateModel(context.Background())

	assert.False(t, verdict.Passed)
	assert.Contains(t, verdict.Reason, "cannot be decoded")
}

func TestValidateModel_NoMetricsPassesWithWarning(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	codec := new(testutil.MockModelCodec)
	decodableModel(store, codec)
	store.On("ReadLatest", mock.Anything, domain.ClassMetrics).
		Return(nil, nil, domain.ErrArtifactNotFound)

	svc := NewValidationService(store, codec, DefaultMinAccuracy)
	verdict := svc.ValidateModel(context.Background())

	assert.True(t, verdict.Passed)
	assert.Contains(t, verdict.Reason, "no metrics")
}

func TestValidateModel_CorruptMetricsFails(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	codec := new(testutil.MockModelCodec)
	decodableModel(store, codec)
	store.On("ReadLatest", mock.Anything, domain.ClassMetrics).
		Return(&domain.ArtifactVersion{Class: domain.ClassMetrics}, []byte("{not json"), nil)

	svc := NewValidationService(store, codec, DefaultMinAccuracy)
	verdict := svc.ValidateModel(context.Background())

	assert.False(t, verdict.Passed)
	assert.Contains(t, verdict.Reason, "unreadable")
}

func predictionsPayload(t *testing.T, confidences []float64) []byte {
	t.Helper()
	set := &domain.PredictionSet{
		FeatureNames: []string{"feature_0"},
		Classes:      []int{0, 1},
	}
	for i, c := range confidences {
		set.Rows = append(set.Rows, domain.PredictionRow{
			Features:       []float64{float64(i)},
			PredictedClass: i % 2,
			Confidence:     c,
			Timestamp:      "2024-01-01T00:00:00Z",
			Probabilities:  []float64{c, 1 - c},
		})
	}
	payload, err := set.EncodeCSV()
	require.NoError(t, err)
	return payload
}

func TestValidatePredictions_MissingFails(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("ReadLatest", mock.Anything, domain.ClassPredictionSet).
		Return(nil, nil, domain.ErrArtifactNotFound)

	svc := NewValidationService(store, new(testutil.MockModelCodec), DefaultMinAccuracy)
	verdict := svc.ValidatePredictions(context.Background())

	assert.False(t, verdict.Passed)
}

func TestValidatePredictions_EmptyTableFails(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("ReadLatest", mock.Anything, domain.ClassPredictionSet).
		Return(&domain.ArtifactVersion{Class: domain.ClassPredictionSet}, predictionsPayload(t, nil), nil)

	svc := NewValidationService(store, new(testutil.MockModelCodec), DefaultMinAccuracy)
	verdict := svc.ValidatePredictions(context.Background())

	assert.False(t, verdict.Passed)
	assert.Contains(t, verdict.Reason, "no predictions")
}

func TestValidatePredictions_TruncatedHeaderFails(t *testing.T) {
	// predicted_class present but the confidence/timestamp columns are gone;
	// the gate must downgrade this to a failed verdict, not escape.
	store := new(testutil.MockArtifactStore)
	store.On("ReadLatest", mock.Anything, domain.ClassPredictionSet).
		Return(&domain.ArtifactVersion{Class: domain.ClassPredictionSet},
			[]byte("predicted_class\n1\n"), nil)

	svc := NewValidationService(store, new(testutil.MockModelCodec), DefaultMinAccuracy)
	verdict := svc.ValidatePredictions(context.Background())

	assert.False(t, verdict.Passed)
	assert.Contains(t, verdict.Reason, "unreadable")
}

func TestValidatePredictions_SummaryOrdering(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("ReadLatest", mock.Anything, domain.ClassPredictionSet).
		Return(&domain.ArtifactVersion{Class: domain.ClassPredictionSet},
			predictionsPayload(t, []float64{0.55, 0.7, 0.9, 0.62}), nil)

	svc := NewValidationService(store, new(testutil.MockModelCodec), DefaultMinAccuracy)
	verdict := svc.ValidatePredictions(context.Background())

	require.True(t, verdict.Passed, verdict.Reason)
	assert.Equal(t, 4.0, verdict.Metrics["total_predictions"])
	assert.Equal(t, 2.0, verdict.Metrics["unique_classes"])
	min := verdict.Metrics["min_confidence"]
	mean := verdict.Metrics["average_confidence"]
	max := verdict.Metrics["max_confidence"]
	assert.LessOrEqual(t, min, mean)
	assert.LessOrEqual(t, mean, max)
	assert.Equal(t, 0.55, min)
	assert.Equal(t, 0.9, max)
}
