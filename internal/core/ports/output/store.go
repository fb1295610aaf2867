package ports

import (
	"context"

	"ml-artifact-pipeline/internal/core/domain"
)

// ArtifactStore is the versioned persistence port. Payloads are opaque
// bytes; encoding is the caller's concern.
type ArtifactStore interface {
	// Persist writes a new timestamp-qualified version and then atomically
	// repoints the class's latest alias at it. A crash between the two
	// steps leaves the previous alias target valid.
	Persist(ctx context.Context, class domain.ArtifactClass, payload []byte) (*domain.ArtifactVersion, error)

	// ReadLatest resolves the latest alias. Returns
	// domain.ErrArtifactNotFound when no version of the class exists.
	ReadLatest(ctx context.Context, class domain.ArtifactClass) (*domain.ArtifactVersion, []byte, error)

	// LatestTarget reports the resolved path the latest alias points at, or
	// domain.ErrArtifactNotFound when the alias is absent.
	LatestTarget(ctx context.Context, class domain.ArtifactClass) (string, error)

	// ListVersions returns all versions of the class ordered by creation
	// timestamp ascending, ties broken by modification time.
	ListVersions(ctx context.Context, class domain.ArtifactClass) ([]*domain.ArtifactVersion, error)

	// Remove deletes a single version file. It never touches the alias.
	Remove(ctx context.Context, version *domain.ArtifactVersion) error
}
