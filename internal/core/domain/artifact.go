package domain

import (
	"fmt"
	"time"
)

// ArtifactClass identifies one family of pipeline outputs. Each class has its
// own storage subdirectory, filename pattern and latest alias, and is
// retained independently.
type ArtifactClass string

const (
	ClassModel         ArtifactClass = "model"
	ClassMetrics       ArtifactClass = "metrics"
	ClassPredictionSet ArtifactClass = "predictions"
)

// timestamps in artifact filenames are second resolution, e.g.
// ml_model_20240131_154500.gob
const VersionTimeLayout = "20060102_150405"

var AllClasses = []ArtifactClass{ClassModel, ClassMetrics, ClassPredictionSet}

func (c ArtifactClass) Valid() bool {
	switch c {
	case ClassModel, ClassMetrics, ClassPredictionSet:
		return true
	}
	return false
}

// Prefix is the filename prefix for versioned files of this class.
func (c ArtifactClass) Prefix() string {
	switch c {
	case ClassModel:
		return "ml_model"
	case ClassMetrics:
		return "metrics"
	case ClassPredictionSet:
		return "predictions"
	}
	return string(c)
}

// Ext is the filename extension, including the dot.
func (c ArtifactClass) Ext() string {
	switch c {
	case ClassModel:
		return ".gob"
	case ClassMetrics:
		return ".json"
	case ClassPredictionSet:
		return ".csv"
	}
	return ""
}

// AliasName is the fixed name of the latest pointer for this class.
func (c ArtifactClass) AliasName() string {
	switch c {
	case ClassModel:
		return "latest_model" + c.Ext()
	case ClassMetrics:
		return "latest_metrics" + c.Ext()
	case ClassPredictionSet:
		return "latest_predictions" + c.Ext()
	}
	return ""
}

// FileName renders the versioned filename for a creation timestamp.
func (c ArtifactClass) FileName(ts time.Time) string {
	return fmt.Sprintf("%s_%s%s", c.Prefix(), ts.Format(VersionTimeLayout), c.Ext())
}

// ArtifactVersion is one persisted, timestamp-qualified artifact file.
type ArtifactVersion struct {
	Class     ArtifactClass `json:"class"`
	CreatedAt time.Time     `json:"created_at"`
	Path      string        `json:"path"`
	SizeBytes int64         `json:"size_bytes"`
}
