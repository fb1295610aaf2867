package dto

import (
	"time"

	"ml-artifact-pipeline/internal/core/domain"
)

// ============================================================================
// Artifact DTOs
// ============================================================================

type ArtifactVersionResponse struct {
	Class     string    `json:"class"`
	CreatedAt time.Time `json:"created_at"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
}

type LatestArtifactResponse struct {
	Class  string                  `json:"class"`
	Target ArtifactVersionResponse `json:"target"`
}

type ListVersionsResponse struct {
	Class string                    `json:"class"`
	Items []ArtifactVersionResponse `json:"items"`
	Total int                       `json:"total"`
}

type ValidationVerdictResponse struct {
	Passed  bool               `json:"passed"`
	Reason  string             `json:"reason,omitempty"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

func ToArtifactVersionResponse(v domain.ArtifactVersion) ArtifactVersionResponse {
	return ArtifactVersionResponse{
		Class:     string(v.Class),
		CreatedAt: v.CreatedAt,
		Path:      v.Path,
		SizeBytes: v.SizeBytes,
	}
}

func ToValidationVerdictResponse(v domain.ValidationVerdict) ValidationVerdictResponse {
	return ValidationVerdictResponse{
		Passed:  v.Passed,
		Reason:  v.Reason,
		Metrics: v.Metrics,
	}
}
