package fsstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ml-artifact-pipeline/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	store, err := New(filepath.Join(base, "models"), filepath.Join(base, "predictions"))
	require.NoError(t, err)
	return store
}

func TestStore_PersistReadLatestRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := []byte("opaque model bytes \x00\x01\x02")
	version, err := store.Persist(ctx, domain.ClassModel, payload)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassModel, version.Class)
	assert.FileExists(t, version.Path)

	latest, got, err := store.ReadLatest(ctx, domain.ClassModel)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, version.Path, latest.Path)
}

func TestStore_ReadLatestAbsentClass(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.ReadLatest(context.Background(), domain.ClassPredictionSet)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	_, err = store.LatestTarget(context.Background(), domain.ClassPredictionSet)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestStore_LatestAlwaysNewest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var last *domain.ArtifactVersion
	for i := 0; i < 5; i++ {
		v, err := store.Persist(ctx, domain.ClassModel, []byte{byte(i)})
		require.NoError(t, err)
		if last != nil {
			assert.True(t, v.CreatedAt.After(last.CreatedAt),
				"version timestamps must be strictly increasing within a writer")
		}
		last = v
	}

	latest, payload, err := store.ReadLatest(ctx, domain.ClassModel)
	require.NoError(t, err)
	assert.Equal(t, last.Path, latest.Path)
	assert.Equal(t, []byte{4}, payload)

	versions, err := store.ListVersions(ctx, domain.ClassModel)
	require.NoError(t, err)
	require.Len(t, versions, 5)
	assert.Equal(t, last.Path, versions[4].Path)
}

func TestStore_CrashBeforeRepointKeepsOldLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	good, err := store.Persist(ctx, domain.ClassModel, []byte("good"))
	require.NoError(t, err)

	// Simulate a crash after the data write but before the alias repoint:
	// a newer version file appears with no alias update.
	orphan := filepath.Join(filepath.Dir(good.Path), domain.ClassModel.FileName(good.CreatedAt.Add(time.Hour)))
	require.NoError(t, os.WriteFile(orphan, []byte("orphaned"), 0o644))

	latest, payload, err := store.ReadLatest(ctx, domain.ClassModel)
	require.NoError(t, err)
	assert.Equal(t, good.Path, latest.Path, "alias must still point at the last fully persisted version")
	assert.Equal(t, []byte("good"), payload)

	// The orphan is visible to listing (and thus retention), just not latest.
	versions, err := store.ListVersions(ctx, domain.ClassModel)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestStore_ResumeAfterCrashRepointsOnNextPersist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Persist(ctx, domain.ClassModel, []byte("v1"))
	require.NoError(t, err)

	next, err := store.Persist(ctx, domain.ClassModel, []byte("v2"))
	require.NoError(t, err)

	target, err := store.LatestTarget(ctx, domain.ClassModel)
	require.NoError(t, err)
	assert.Equal(t, next.Path, target)
}

func TestStore_ListVersionsIgnoresForeignFiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Persist(ctx, domain.ClassModel, []byte("m"))
	require.NoError(t, err)
	_, err = store.Persist(ctx, domain.ClassMetrics, []byte("{}"))
	require.NoError(t, err)

	// Stray files in the same directory must not be mistaken for versions.
	require.NoError(t, os.WriteFile(filepath.Join(store.modelsDir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.modelsDir, "ml_model_garbage.gob"), []byte("x"), 0o644))

	models, err := store.ListVersions(ctx, domain.ClassModel)
	require.NoError(t, err)
	assert.Len(t, models, 1)

	metrics, err := store.ListVersions(ctx, domain.ClassMetrics)
	require.NoError(t, err)
	assert.Len(t, metrics, 1)
}

func TestStore_ClassesAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Persist(ctx, domain.ClassModel, []byte("model"))
	require.NoError(t, err)
	_, err = store.Persist(ctx, domain.ClassPredictionSet, []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	_, payload, err := store.ReadLatest(ctx, domain.ClassPredictionSet)
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b\n1,2\n"), payload)

	_, _, err = store.ReadLatest(ctx, domain.ClassMetrics)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestStore_RemoveLeavesAliasAlone(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	v1, err := store.Persist(ctx, domain.ClassModel, []byte("v1"))
	require.NoError(t, err)
	v2, err := store.Persist(ctx, domain.ClassModel, []byte("v2"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, v1))

	target, err := store.LatestTarget(ctx, domain.ClassModel)
	require.NoError(t, err)
	assert.Equal(t, v2.Path, target)

	versions, err := store.ListVersions(ctx, domain.ClassModel)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestStore_InvalidClass(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Persist(context.Background(), domain.ArtifactClass("bogus"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidClass)
}
