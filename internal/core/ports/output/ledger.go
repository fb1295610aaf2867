package ports

import (
	"context"

	"github.com/google/uuid"

	"ml-artifact-pipeline/internal/core/domain"
)

type RunListFilter struct {
	Status string
	Limit  int
	Offset int
}

// RunLedger records pipeline runs, persisted versions and verdicts in a
// durable index. The ledger is optional; the driver treats it as
// best-effort bookkeeping, not a stage of the pipeline.
type RunLedger interface {
	CreateRun(ctx context.Context, run *domain.PipelineRun) error
	FinishRun(ctx context.Context, run *domain.PipelineRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error)
	ListRuns(ctx context.Context, filter RunListFilter) ([]*domain.PipelineRun, int, error)
	RecordArtifact(ctx context.Context, runID uuid.UUID, version *domain.ArtifactVersion) error
	RecordVerdict(ctx context.Context, runID uuid.UUID, stage domain.Stage, verdict domain.ValidationVerdict) error
}
