package domain

// ValidationVerdict is the outcome of inspecting a stored artifact. A verdict
// is always produced; failure to pass is carried in Passed and Reason rather
// than as an error, so callers can make a policy decision without
// exception-style control flow.
type ValidationVerdict struct {
	Passed  bool               `json:"passed"`
	Reason  string             `json:"reason"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// RetentionResult reports one retention sweep over a single artifact class.
// Deletions are best-effort: Failed counts files that could not be removed.
type RetentionResult struct {
	Class   ArtifactClass     `json:"class"`
	Kept    int               `json:"kept"`
	Deleted []ArtifactVersion `json:"deleted"`
	Failed  int               `json:"failed"`
}
