package dto

import (
	"time"

	"github.com/google/uuid"

	"ml-artifact-pipeline/internal/core/domain"
)

// ============================================================================
// Pipeline Run DTOs
// ============================================================================

type StageResultResponse struct {
	Stage      string    `json:"stage"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type PipelineRunResponse struct {
	ID          uuid.UUID             `json:"id"`
	StartedAt   time.Time             `json:"started_at"`
	FinishedAt  time.Time             `json:"finished_at"`
	Status      string                `json:"status"`
	FailedStage string                `json:"failed_stage,omitempty"`
	Error       string                `json:"error,omitempty"`
	Stages      []StageResultResponse `json:"stages"`
}

type ListRunsResponse struct {
	Items      []PipelineRunResponse `json:"items"`
	Total      int                   `json:"total"`
	PageSize   int                   `json:"page_size"`
	NextOffset int                   `json:"next_offset"`
}

func ToPipelineRunResponse(run *domain.PipelineRun) PipelineRunResponse {
	stages := make([]StageResultResponse, 0, len(run.Stages))
	for _, s := range run.Stages {
		stages = append(stages, StageResultResponse{
			Stage:      string(s.Stage),
			Status:     string(s.Status),
			Detail:     s.Detail,
			StartedAt:  s.StartedAt,
			FinishedAt: s.FinishedAt,
		})
	}
	return PipelineRunResponse{
		ID:          run.ID,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		Status:      string(run.Status),
		FailedStage: string(run.FailedStage),
		Error:       run.Error,
		Stages:      stages,
	}
}
