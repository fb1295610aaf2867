// Package centroid implements the pipeline's learner contract with a
// nearest-centroid classifier. The algorithm itself is deliberately simple;
// the pipeline only depends on the fit/predict/proba/classes contract and on
// the model being serializable to an opaque payload.
package centroid

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// Classifier predicts the class whose training centroid is nearest in
// Euclidean distance. Probabilities are normalized inverse distances, so the
// winning class always carries the highest confidence.
type Classifier struct {
	classes   []int
	nFeatures int
	centroids *mat.Dense // one row per class, aligned with classes
}

var _ ports.Learner = (*Classifier)(nil)

func New() *Classifier {
	return &Classifier{}
}

func (c *Classifier) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 {
		return domain.ErrEmptyDataset
	}
	if len(features) != len(labels) {
		return fmt.Errorf("features/labels length mismatch: %d vs %d", len(features), len(labels))
	}

	nFeatures := len(features[0])
	sums := make(map[int][]float64)
	counts := make(map[int]int)
	for i, row := range features {
		if len(row) != nFeatures {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), nFeatures)
		}
		cls := labels[i]
		if sums[cls] == nil {
			sums[cls] = make([]float64, nFeatures)
		}
		floats.Add(sums[cls], row)
		counts[cls]++
	}

	classes := make([]int, 0, len(sums))
	for cls := range sums {
		classes = append(classes, cls)
	}
	sort.Ints(classes)

	centroids := mat.NewDense(len(classes), nFeatures, nil)
	for i, cls := range classes {
		mean := sums[cls]
		floats.Scale(1/float64(counts[cls]), mean)
		centroids.SetRow(i, mean)
	}

	c.classes = classes
	c.nFeatures = nFeatures
	c.centroids = centroids
	return nil
}

func (c *Classifier) Predict(features [][]float64) ([]int, error) {
	probs, err := c.PredictProba(features)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(probs))
	for i, p := range probs {
		labels[i] = c.classes[floats.MaxIdx(p)]
	}
	return labels, nil
}

func (c *Classifier) PredictProba(features [][]float64) ([][]float64, error) {
	if c.centroids == nil {
		return nil, fmt.Errorf("classifier has not been fitted")
	}
	out := make([][]float64, len(features))
	for i, row := range features {
		if len(row) != c.nFeatures {
			return nil, fmt.Errorf("row %d: %w", i, domain.ErrFeatureWidthDrift)
		}
		weights := make([]float64, len(c.classes))
		for k := range c.classes {
			d := floats.Distance(row, c.centroids.RawRowView(k), 2)
			// inverse-distance weighting; epsilon guards a sample sitting
			// exactly on a centroid
			weights[k] = 1 / (d + 1e-9)
		}
		floats.Scale(1/floats.Sum(weights), weights)
		out[i] = weights
	}
	return out, nil
}

func (c *Classifier) Classes() []int {
	return append([]int(nil), c.classes...)
}

// snapshot is the gob wire form of a fitted classifier.
type snapshot struct {
	Classes   []int
	NFeatures int
	Centroids []float64 // row-major, len(Classes)*NFeatures
}

func (c *Classifier) MarshalBinary() ([]byte, error) {
	if c.centroids == nil {
		return nil, fmt.Errorf("cannot serialize an unfitted classifier")
	}
	snap := snapshot{
		Classes:   c.classes,
		NFeatures: c.nFeatures,
		Centroids: append([]float64(nil), c.centroids.RawMatrix().Data...),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return buf.Bytes(), nil
}

// Codec reconstructs classifiers from stored model payloads.
type Codec struct{}

var _ ports.ModelCodec = Codec{}

func (Codec) Decode(payload []byte) (ports.Learner, error) {
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelUndecodable, err)
	}
	if snap.NFeatures <= 0 || len(snap.Classes) == 0 ||
		len(snap.Centroids) != len(snap.Classes)*snap.NFeatures {
		return nil, fmt.Errorf("%w: inconsistent centroid dimensions", domain.ErrModelUndecodable)
	}
	return &Classifier{
		classes:   snap.Classes,
		nFeatures: snap.NFeatures,
		centroids: mat.NewDense(len(snap.Classes), snap.NFeatures, snap.Centroids),
	}, nil
}
