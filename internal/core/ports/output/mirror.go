package ports

import (
	"context"

	"ml-artifact-pipeline/internal/core/domain"
)

// ArtifactMirror uploads persisted artifacts to a secondary store (an
// S3-compatible bucket in practice). Mirroring is best-effort and never
// gates the pipeline.
type ArtifactMirror interface {
	Upload(ctx context.Context, version *domain.ArtifactVersion, payload []byte) error
}
