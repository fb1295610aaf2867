package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// MockArtifactStore is a mock of ports.ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Persist(ctx context.Context, class domain.ArtifactClass, payload []byte) (*domain.ArtifactVersion, error) {
	args := m.Called(ctx, class, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArtifactVersion), args.Error(1)
}

func (m *MockArtifactStore) ReadLatest(ctx context.Context, class domain.ArtifactClass) (*domain.ArtifactVersion, []byte, error) {
	args := m.Called(ctx, class)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ArtifactVersion), args.Get(1).([]byte), args.Error(2)
}

func (m *MockArtifactStore) LatestTarget(ctx context.Context, class domain.ArtifactClass) (string, error) {
	args := m.Called(ctx, class)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) ListVersions(ctx context.Context, class domain.ArtifactClass) ([]*domain.ArtifactVersion, error) {
	args := m.Called(ctx, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ArtifactVersion), args.Error(1)
}

func (m *MockArtifactStore) Remove(ctx context.Context, version *domain.ArtifactVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

// MockRunLedger is a mock of ports.RunLedger.
type MockRunLedger struct {
	mock.Mock
}

func (m *MockRunLedger) CreateRun(ctx context.Context, run *domain.PipelineRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunLedger) FinishRun(ctx context.Context, run *domain.PipelineRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunLedger) GetRun(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineRun), args.Error(1)
}

func (m *MockRunLedger) ListRuns(ctx context.Context, filter ports.RunListFilter) ([]*domain.PipelineRun, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.PipelineRun), args.Int(1), args.Error(2)
}

func (m *MockRunLedger) RecordArtifact(ctx context.Context, runID uuid.UUID, version *domain.ArtifactVersion) error {
	args := m.Called(ctx, runID, version)
	return args.Error(0)
}

func (m *MockRunLedger) RecordVerdict(ctx context.Context, runID uuid.UUID, stage domain.Stage, verdict domain.ValidationVerdict) error {
	args := m.Called(ctx, runID, stage, verdict)
	return args.Error(0)
}

// MockModelCodec is a mock of ports.ModelCodec.
type MockModelCodec struct {
	mock.Mock
}

func (m *MockModelCodec) Decode(payload []byte) (ports.Learner, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Learner), args.Error(1)
}

// MockLearner is a mock of ports.Learner.
type MockLearner struct {
	mock.Mock
}

func (m *MockLearner) Fit(features [][]float64, labels []int) error {
	args := m.Called(features, labels)
	return args.Error(0)
}

func (m *MockLearner) Predict(features [][]float64) ([]int, error) {
	args := m.Called(features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockLearner) PredictProba(features [][]float64) ([][]float64, error) {
	args := m.Called(features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float64), args.Error(1)
}

func (m *MockLearner) Classes() []int {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]int)
}

func (m *MockLearner) MarshalBinary() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockDataSource is a mock of ports.DataSource.
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) Load(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

// MockArtifactMirror is a mock of ports.ArtifactMirror.
type MockArtifactMirror struct {
	mock.Mock
}

func (m *MockArtifactMirror) Upload(ctx context.Context, version *domain.ArtifactVersion, payload []byte) error {
	args := m.Called(ctx, version, payload)
	return args.Error(0)
}
