package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ModelMetrics is the metrics document persisted alongside each model
// version. Timestamp is ISO-8601.
type ModelMetrics struct {
	Accuracy    float64 `json:"accuracy"`
	Timestamp   string  `json:"timestamp"`
	TestSamples int     `json:"test_samples"`
}

func NewModelMetrics(accuracy float64, testSamples int, at time.Time) ModelMetrics {
	return ModelMetrics{
		Accuracy:    accuracy,
		Timestamp:   at.Format(time.RFC3339),
		TestSamples: testSamples,
	}
}

func (m ModelMetrics) Encode() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func DecodeModelMetrics(payload []byte) (ModelMetrics, error) {
	var m ModelMetrics
	if err := json.Unmarshal(payload, &m); err != nil {
		return ModelMetrics{}, fmt.Errorf("decode metrics document: %w", err)
	}
	return m, nil
}
