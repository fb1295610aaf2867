package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stage is one step of the pipeline state machine. Stages run in the order
// below; a failing stage moves the run to StatusFailed and no later stage
// executes.
type Stage string

const (
	StageLoadData            Stage = "LoadData"
	StageTrain               Stage = "Train"
	StagePersist             Stage = "Persist"
	StageValidateModel       Stage = "ValidateModel"
	StagePredict             Stage = "Predict"
	StagePersistPredictions  Stage = "PersistPredictions"
	StageValidatePredictions Stage = "ValidatePredictions"
	StageCleanup             Stage = "Cleanup"
)

// StageOrder is the canonical execution sequence.
var StageOrder = []Stage{
	StageLoadData,
	StageTrain,
	StagePersist,
	StageValidateModel,
	StagePredict,
	StagePersistPredictions,
	StageValidatePredictions,
	StageCleanup,
}

type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
)

type StageStatus string

const (
	StageStatusSucceeded StageStatus = "SUCCEEDED"
	StageStatusFailed    StageStatus = "FAILED"
	StageStatusSkipped   StageStatus = "SKIPPED"
)

// StageResult is the discriminated outcome of one stage. Err is nil on
// success; Detail is a human-readable diagnostic either way.
type StageResult struct {
	Stage      Stage       `json:"stage"`
	Status     StageStatus `json:"status"`
	Detail     string      `json:"detail,omitempty"`
	Err        error       `json:"-"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}

// PipelineRun aggregates one full cycle of the pipeline.
type PipelineRun struct {
	ID          uuid.UUID     `json:"id"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	Status      RunStatus     `json:"status"`
	FailedStage Stage         `json:"failed_stage,omitempty"`
	Error       string        `json:"error,omitempty"`
	Stages      []StageResult `json:"stages"`
}
