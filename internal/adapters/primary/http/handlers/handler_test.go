package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ml-artifact-pipeline/internal/adapters/primary/http/dto"
	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
	"ml-artifact-pipeline/internal/core/services"
	"ml-artifact-pipeline/internal/testutil"
)

func setupRouter(store ports.ArtifactStore, ledger ports.RunLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)

	validationSvc := services.NewValidationService(store, new(testutil.MockModelCodec), services.DefaultMinAccuracy)
	h := New(store, validationSvc, ledger)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1/pipeline"))
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetLatestArtifact(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	version := &domain.ArtifactVersion{
		Class:     domain.ClassModel,
		CreatedAt: time.Date(2024, 1, 31, 15, 45, 0, 0, time.UTC),
		Path:      "/app/models/ml_model_20240131_154500.gob",
		SizeBytes: 128,
	}
	store.On("ReadLatest", mock.Anything, domain.ClassModel).Return(version, []byte{1}, nil)

	r := setupRouter(store, nil)
	w := doGet(t, r, "/api/v1/pipeline/artifacts/model/latest")

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LatestArtifactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "model", resp.Class)
	assert.Equal(t, version.Path, resp.Target.Path)
	assert.Equal(t, int64(128), resp.Target.SizeBytes)
}

func TestGetLatestArtifactNotFound(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("ReadLatest", mock.Anything, domain.ClassMetrics).Return(nil, nil, domain.ErrArtifactNotFound)

	r := setupRouter(store, nil)
	w := doGet(t, r, "/api/v1/pipeline/artifacts/metrics/latest")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLatestArtifactInvalidClass(t *testing.T) {
	store := new(testutil.MockArtifactStore)

	r := setupRouter(store, nil)
	w := doGet(t, r, "/api/v1/pipeline/artifacts/checkpoints/latest")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "ReadLatest", mock.Anything, mock.Anything)
}

func TestListVersions(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	versions := []*domain.ArtifactVersion{
		{Class: domain.ClassPredictionSet, Path: "a.csv"},
		{Class: domain.ClassPredictionSet, Path: "b.csv"},
	}
	store.On("ListVersions", mock.Anything, domain.ClassPredictionSet).Return(versions, nil)

	r := setupRouter(store, nil)
	w := doGet(t, r, "/api/v1/pipeline/artifacts/predictions/versions")

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListVersionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Items, 2)
}

func TestListArtifactsSkipsAbsentClasses(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	version := &domain.ArtifactVersion{Class: domain.ClassModel, Path: "m.gob"}
	store.On("ReadLatest", mock.Anything, domain.ClassModel).Return(version, []byte{1}, nil)
	store.On("ReadLatest", mock.Anything, domain.ClassMetrics).Return(nil, nil, domain.ErrArtifactNotFound)
	store.On("ReadLatest", mock.Anything, domain.ClassPredictionSet).Return(nil, nil, domain.ErrArtifactNotFound)

	r := setupRouter(store, nil)
	w := doGet(t, r, "/api/v1/pipeline/artifacts")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []dto.LatestArtifactResponse `json:"items"`
		Total int                          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestValidateModelMissing(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("ReadLatest", mock.Anything, domain.ClassModel).Return(nil, nil, domain.ErrArtifactNotFound)

	r := setupRouter(store, nil)
	w := doGet(t, r, "/api/v1/pipeline/validation/model")

	// failing verdicts are still successful requests
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ValidationVerdictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Passed)
	assert.NotEmpty(t, resp.Reason)
}

func TestGetRunLedgerDisabled(t *testing.T) {
	store := new(testutil.MockArtifactStore)

	r := setupRouter(store, nil)
	w := doGet(t, r, "/api/v1/pipeline/runs/"+uuid.NewString())

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetRun(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	ledger := new(testutil.MockRunLedger)
	run := &domain.PipelineRun{
		ID:     uuid.New(),
		Status: domain.RunStatusSucceeded,
		Stages: []domain.StageResult{{Stage: domain.StageTrain, Status: domain.StageStatusSucceeded}},
	}
	ledger.On("GetRun", mock.Anything, run.ID).Return(run, nil)

	r := setupRouter(store, ledger)
	w := doGet(t, r, "/api/v1/pipeline/runs/"+run.ID.String())

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.PipelineRunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, run.ID, resp.ID)
	assert.Equal(t, "SUCCEEDED", resp.Status)
	assert.Len(t, resp.Stages, 1)
}

func TestGetRunInvalidID(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	ledger := new(testutil.MockRunLedger)

	r := setupRouter(store, ledger)
	w := doGet(t, r, "/api/v1/pipeline/runs/not-a-uuid")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRuns(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	ledger := new(testutil.MockRunLedger)
	runs := []*domain.PipelineRun{
		{ID: uuid.New(), Status: domain.RunStatusSucceeded},
		{ID: uuid.New(), Status: domain.RunStatusFailed},
	}
	ledger.On("ListRuns", mock.Anything, ports.RunListFilter{Status: "", Limit: 20, Offset: 0}).
		Return(runs, 2, nil)

	r := setupRouter(store, ledger)
	w := doGet(t, r, "/api/v1/pipeline/runs")

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListRunsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, 2, resp.NextOffset)
}
