package domain

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// PredictionRow is one scored input: the original features plus the
// predicted class, the winning probability and the full per-class
// probability vector (ordered as PredictionSet.Classes).
type PredictionRow struct {
	Features       []float64
	PredictedClass int
	Confidence     float64
	Timestamp      string
	Probabilities  []float64
}

// PredictionSet is the tabular prediction artifact. It round-trips through
// CSV with columns: feature names, predicted_class, prediction_confidence,
// prediction_timestamp, prob_class_<k> for each class k.
type PredictionSet struct {
	FeatureNames []string
	Classes      []int
	Rows         []PredictionRow
}

const (
	colPredictedClass = "predicted_class"
	colConfidence     = "prediction_confidence"
	colTimestamp      = "prediction_timestamp"
	probColPrefix     = "prob_class_"
)

func (p *PredictionSet) header() []string {
	h := make([]string, 0, len(p.FeatureNames)+3+len(p.Classes))
	h = append(h, p.FeatureNames...)
	h = append(h, colPredictedClass, colConfidence, colTimestamp)
	for _, c := range p.Classes {
		h = append(h, probColPrefix+strconv.Itoa(c))
	}
	return h
}

func (p *PredictionSet) EncodeCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(p.header()); err != nil {
		return nil, fmt.Errorf("write prediction header: %w", err)
	}
	rec := make([]string, 0, len(p.header()))
	for i, row := range p.Rows {
		rec = rec[:0]
		for _, f := range row.Features {
			rec = append(rec, formatFloat(f))
		}
		rec = append(rec, strconv.Itoa(row.PredictedClass), formatFloat(row.Confidence), row.Timestamp)
		for _, pr := range row.Probabilities {
			rec = append(rec, formatFloat(pr))
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write prediction row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush prediction table: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePredictionSet parses a prediction table back from CSV. Columns up to
// predicted_class are treated as features; prob_class_* columns define the
// ordered class set.
func DecodePredictionSet(payload []byte) (*PredictionSet, error) {
	r := csv.NewReader(bytes.NewReader(payload))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read prediction table: %w", err)
	}
	if len(records) == 0 {
		return &PredictionSet{}, nil
	}

	header := records[0]
	clsIdx := -1
	for i, name := range header {
		if name == colPredictedClass {
			clsIdx = i
			break
		}
	}
	if clsIdx < 0 {
		return nil, fmt.Errorf("prediction table is missing the %s column", colPredictedClass)
	}
	if clsIdx+2 >= len(header) || header[clsIdx+1] != colConfidence || header[clsIdx+2] != colTimestamp {
		return nil, fmt.Errorf("prediction table is missing the %s/%s columns after %s",
			colConfidence, colTimestamp, colPredictedClass)
	}

	set := &PredictionSet{FeatureNames: append([]string(nil), header[:clsIdx]...)}
	probStart := -1
	for i, name := range header {
		if !strings.HasPrefix(name, probColPrefix) {
			continue
		}
		if probStart < 0 {
			probStart = i
		}
		cls, err := strconv.Atoi(strings.TrimPrefix(name, probColPrefix))
		if err != nil {
			return nil, fmt.Errorf("malformed probability column %q: %w", name, err)
		}
		set.Classes = append(set.Classes, cls)
	}

	for line, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("prediction row %d has %d columns, want %d", line+1, len(rec), len(header))
		}
		row := PredictionRow{Features: make([]float64, clsIdx)}
		for i := 0; i < clsIdx; i++ {
			if row.Features[i], err = strconv.ParseFloat(rec[i], 64); err != nil {
				return nil, fmt.Errorf("prediction row %d, column %s: %w", line+1, header[i], err)
			}
		}
		if row.PredictedClass, err = strconv.Atoi(rec[clsIdx]); err != nil {
			return nil, fmt.Errorf("prediction row %d: bad predicted class: %w", line+1, err)
		}
		if row.Confidence, err = strconv.ParseFloat(rec[clsIdx+1], 64); err != nil {
			return nil, fmt.Errorf("prediction row %d: bad confidence: %w", line+1, err)
		}
		row.Timestamp = rec[clsIdx+2]
		if probStart >= 0 {
			row.Probabilities = make([]float64, 0, len(set.Classes))
			for i := probStart; i < len(rec); i++ {
				p, err := strconv.ParseFloat(rec[i], 64)
				if err != nil {
					return nil, fmt.Errorf("prediction row %d, column %s: %w", line+1, header[i], err)
				}
				row.Probabilities = append(row.Probabilities, p)
			}
		}
		set.Rows = append(set.Rows, row)
	}
	return set, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
