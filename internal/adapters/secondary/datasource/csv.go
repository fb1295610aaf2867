package datasource

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// targetColumn marks the label column in training CSVs, matching the
// prediction pipeline's input convention.
const targetColumn = "target"

// CSVFile loads a feature table from a local CSV file. A trailing "target"
// column, when present, is split off as labels.
type CSVFile struct {
	Path string
}

var _ ports.DataSource = CSVFile{}

func (c CSVFile) Load(ctx context.Context) (*domain.Dataset, error) {
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", c.Path, err)
	}
	ds, err := ParseCSV(raw)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", c.Path, err)
	}
	log.WithFields(log.Fields{"path": c.Path, "rows": ds.Rows(), "labeled": ds.Labeled}).
		Info("dataset loaded")
	return ds, nil
}

// ParseCSV decodes a feature table. The header row names the columns; every
// other cell must be numeric. A "target" column yields integer labels.
func ParseCSV(raw []byte) (*domain.Dataset, error) {
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, domain.ErrEmptyDataset
	}

	header := records[0]
	targetIdx := -1
	for i, name := range header {
		if name == targetColumn {
			targetIdx = i
			break
		}
	}

	ds := &domain.Dataset{Labeled: targetIdx >= 0}
	for i, name := range header {
		if i != targetIdx {
			ds.FeatureNames = append(ds.FeatureNames, name)
		}
	}

	for line, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", line+1, len(rec), len(header))
		}
		row := make([]float64, 0, len(ds.FeatureNames))
		for i, cell := range rec {
			if i == targetIdx {
				label, err := strconv.Atoi(cell)
				if err != nil {
					return nil, fmt.Errorf("row %d: bad target %q: %w", line+1, cell, err)
				}
				ds.Labels = append(ds.Labels, label)
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", line+1, header[i], err)
			}
			row = append(row, v)
		}
		ds.Features = append(ds.Features, row)
	}
	return ds, nil
}
