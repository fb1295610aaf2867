package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// Store persists artifacts as timestamp-named files under per-class
// directories and maintains a symlink latest alias per class. The alias is
// repointed by staging a new symlink under a temporary name and renaming it
// over the old one, so readers never observe a missing or dangling alias.
//
// Single writer per class is assumed; the store does not take cross-process
// locks.
type Store struct {
	modelsDir      string
	predictionsDir string

	mu        sync.Mutex
	lastStamp map[domain.ArtifactClass]time.Time
}

var _ ports.ArtifactStore = (*Store)(nil)

func New(modelsDir, predictionsDir string) (*Store, error) {
	for _, dir := range []string{modelsDir, predictionsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create artifact directory %s: %w", dir, err)
		}
	}
	return &Store{
		modelsDir:      modelsDir,
		predictionsDir: predictionsDir,
		lastStamp:      make(map[domain.ArtifactClass]time.Time),
	}, nil
}

// dir maps a class to its storage directory: model and metrics files live
// together, prediction tables in their own directory.
func (s *Store) dir(class domain.ArtifactClass) string {
	if class == domain.ClassPredictionSet {
		return s.predictionsDir
	}
	return s.modelsDir
}

func (s *Store) Persist(ctx context.Context, class domain.ArtifactClass, payload []byte) (*domain.ArtifactVersion, error) {
	if !class.Valid() {
		return nil, domain.ErrInvalidClass
	}
	dir := s.dir(class)
	stamp, final := s.claimVersionPath(class, dir)
	name := filepath.Base(final)

	// Step one: durable write of the data file. A failure here leaves the
	// previous alias target untouched.
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		_ = os.Remove(tmp)
		return nil, persistErr("write "+name, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return nil, persistErr("rename "+name, err)
	}

	// Step two: repoint the alias. Stage a fresh symlink and rename it over
	// the existing alias in a single atomic replace; never delete-then-create,
	// which would expose a window with no valid latest. A crash before this
	// point leaves the new file orphaned but harmless.
	alias := filepath.Join(dir, class.AliasName())
	staged := filepath.Join(dir, "."+class.AliasName()+".staged")
	_ = os.Remove(staged)
	if err := os.Symlink(name, staged); err != nil {
		return nil, persistErr("stage latest alias", err)
	}
	if err := os.Rename(staged, alias); err != nil {
		_ = os.Remove(staged)
		return nil, persistErr("repoint latest alias", err)
	}

	log.WithFields(log.Fields{
		"class": class,
		"path":  final,
		"bytes": len(payload),
	}).Info("artifact persisted")

	return &domain.ArtifactVersion{
		Class:     class,
		CreatedAt: stamp,
		Path:      final,
		SizeBytes: int64(len(payload)),
	}, nil
}

// claimVersionPath reserves a second-resolution timestamp for the next
// version. Within-second persists are bumped forward one second so version
// names stay distinct and non-decreasing, including across restarts (an
// existing file with the candidate name bumps as well).
func (s *Store) claimVersionPath(class domain.ArtifactClass, dir string) (time.Time, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := time.Now().Truncate(time.Second)
	if last := s.lastStamp[class]; !stamp.After(last) {
		stamp = last.Add(time.Second)
	}
	for {
		final := filepath.Join(dir, class.FileName(stamp))
		if _, err := os.Lstat(final); errors.Is(err, fs.ErrNotExist) {
			s.lastStamp[class] = stamp
			return stamp, final
		}
		stamp = stamp.Add(time.Second)
	}
}

func (s *Store) ReadLatest(ctx context.Context, class domain.ArtifactClass) (*domain.ArtifactVersion, []byte, error) {
	if !class.Valid() {
		return nil, nil, domain.ErrInvalidClass
	}
	alias := filepath.Join(s.dir(class), class.AliasName())
	payload, err := os.ReadFile(alias)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, domain.ErrArtifactNotFound
		}
		return nil, nil, fmt.Errorf("read latest %s: %w", class, err)
	}

	target, err := s.LatestTarget(ctx, class)
	if err != nil {
		return nil, nil, err
	}
	version := &domain.ArtifactVersion{
		Class:     class,
		Path:      target,
		SizeBytes: int64(len(payload)),
	}
	if stamp, ok := parseVersionName(class, filepath.Base(target)); ok {
		version.CreatedAt = stamp
	}
	return version, payload, nil
}

func (s *Store) LatestTarget(ctx context.Context, class domain.ArtifactClass) (string, error) {
	if !class.Valid() {
		return "", domain.ErrInvalidClass
	}
	alias := filepath.Join(s.dir(class), class.AliasName())
	target, err := os.Readlink(alias)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrArtifactNotFound
		}
		return "", fmt.Errorf("resolve latest alias for %s: %w", class, err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.dir(class), target)
	}
	return filepath.Clean(target), nil
}

func (s *Store) ListVersions(ctx context.Context, class domain.ArtifactClass) ([]*domain.ArtifactVersion, error) {
	if !class.Valid() {
		return nil, domain.ErrInvalidClass
	}
	dir := s.dir(class)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s versions: %w", class, err)
	}

	type keyed struct {
		version *domain.ArtifactVersion
		modTime time.Time
	}
	var found []keyed
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 || entry.IsDir() {
			continue
		}
		stamp, ok := parseVersionName(class, entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, keyed{
			version: &domain.ArtifactVersion{
				Class:     class,
				CreatedAt: stamp,
				Path:      filepath.Join(dir, entry.Name()),
				SizeBytes: info.Size(),
			},
			modTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].version.CreatedAt.Equal(found[j].version.CreatedAt) {
			return found[i].version.CreatedAt.Before(found[j].version.CreatedAt)
		}
		return found[i].modTime.Before(found[j].modTime)
	})

	versions := make([]*domain.ArtifactVersion, len(found))
	for i, k := range found {
		versions[i] = k.version
	}
	return versions, nil
}

func (s *Store) Remove(ctx context.Context, version *domain.ArtifactVersion) error {
	if err := os.Remove(version.Path); err != nil {
		return fmt.Errorf("remove %s: %w", version.Path, err)
	}
	return nil
}

// parseVersionName extracts the creation timestamp from a versioned
// filename, rejecting anything that does not match the class pattern.
func parseVersionName(class domain.ArtifactClass, name string) (time.Time, bool) {
	prefix := class.Prefix() + "_"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, class.Ext()) {
		return time.Time{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, prefix), class.Ext())
	stamp, err := time.ParseInLocation(domain.VersionTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return stamp, true
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistFailed, op, err)
}
