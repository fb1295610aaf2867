package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// DefaultKeepCount is the number of versions retained per artifact class.
const DefaultKeepCount = 5

// RetentionService enforces a keep-last-N policy per artifact class. The
// version the latest alias resolves to is never deleted, regardless of its
// position in the ordering.
type RetentionService struct {
	store ports.ArtifactStore
}

func NewRetentionService(store ports.ArtifactStore) *RetentionService {
	return &RetentionService{store: store}
}

func (s *RetentionService) EnforceRetention(ctx context.Context, class domain.ArtifactClass, keep int) (*domain.RetentionResult, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep count must be at least 1, got %d", keep)
	}

	versions, err := s.store.ListVersions(ctx, class)
	if err != nil {
		return nil, err
	}
	result := &domain.RetentionResult{Class: class, Kept: len(versions)}
	if len(versions) <= keep {
		return result, nil
	}

	// In normal operation the latest target is the newest version and never
	// falls in the candidate window, but the identity check is explicit to
	// tolerate clock skew or a manually repointed alias.
	latestTarget, err := s.store.LatestTarget(ctx, class)
	if err != nil && !errors.Is(err, domain.ErrArtifactNotFound) {
		return nil, err
	}

	candidates := versions[:len(versions)-keep]
	for _, v := range candidates {
		if latestTarget != "" && v.Path == latestTarget {
			log.WithFields(log.Fields{"class": class, "path": v.Path}).
				Warn("skipping deletion: version is the current latest target")
			continue
		}
		if err := s.store.Remove(ctx, v); err != nil {
			// best-effort: one stuck file must not abort the sweep
			log.WithError(err).WithField("path", v.Path).Warn("failed to delete old artifact")
			result.Failed++
			continue
		}
		log.WithFields(log.Fields{"class": class, "path": v.Path}).Info("removed old artifact")
		result.Deleted = append(result.Deleted, *v)
	}
	result.Kept = len(versions) - len(result.Deleted)
	return result, nil
}

// EnforceAll sweeps every artifact class with the same keep count, one
// goroutine per class.
func (s *RetentionService) EnforceAll(ctx context.Context, keep int) ([]*domain.RetentionResult, error) {
	results := make([]*domain.RetentionResult, len(domain.AllClasses))
	g, gctx := errgroup.WithContext(ctx)
	for i, class := range domain.AllClasses {
		g.Go(func() error {
			res, err := s.EnforceRetention(gctx, class, keep)
			if err != nil {
				return fmt.Errorf("retention for %s: %w", class, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
