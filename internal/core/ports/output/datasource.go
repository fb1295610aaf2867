package ports

import (
	"context"

	"ml-artifact-pipeline/internal/core/domain"
)

// DataSource supplies the feature table a pipeline cycle operates on.
type DataSource interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}
