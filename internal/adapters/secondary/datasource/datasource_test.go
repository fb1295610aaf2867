package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ml-artifact-pipeline/internal/core/domain"
)

func TestSynthetic_Deterministic(t *testing.T) {
	src := Synthetic{Samples: 100, Features: 20, Classes: 2, Labeled: true, Seed: 42}

	a, err := src.Load(context.Background())
	require.NoError(t, err)
	b, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Features, b.Features, "same seed must give the same data")
	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, 100, a.Rows())
	assert.Equal(t, 20, a.Cols())
	assert.Equal(t, "feature_0", a.FeatureNames[0])
}

func TestSynthetic_Unlabeled(t *testing.T) {
	src := Synthetic{Samples: 10, Features: 4, Classes: 2, Seed: 1}
	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ds.Labeled)
	assert.Empty(t, ds.Labels)
}

func TestParseCSV_WithTarget(t *testing.T) {
	raw := []byte("feature_0,feature_1,target\n1.5,2.5,0\n3.5,4.5,1\n")
	ds, err := ParseCSV(raw)
	require.NoError(t, err)

	assert.True(t, ds.Labeled)
	assert.Equal(t, []string{"feature_0", "feature_1"}, ds.FeatureNames)
	assert.Equal(t, [][]float64{{1.5, 2.5}, {3.5, 4.5}}, ds.Features)
	assert.Equal(t, []int{0, 1}, ds.Labels)
}

func TestParseCSV_WithoutTarget(t *testing.T) {
	raw := []byte("a,b\n1,2\n")
	ds, err := ParseCSV(raw)
	require.NoError(t, err)
	assert.False(t, ds.Labeled)
	assert.Equal(t, [][]float64{{1, 2}}, ds.Features)
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV([]byte("a,b\n"))
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestParseCSV_BadCell(t *testing.T) {
	_, err := ParseCSV([]byte("a,b\n1,notanumber\n"))
	assert.Error(t, err)
}

func TestHTTP_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("a,b,target\n1,2,0\n3,4,1\n"))
	}))
	defer srv.Close()

	ds, err := HTTP{URL: srv.URL}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestHTTP_PermanentOn404(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := HTTP{URL: srv.URL}.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "client errors must not be retried")
}
