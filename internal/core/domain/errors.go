package domain

import "errors"

// Not found errors
var (
	ErrArtifactNotFound = errors.New("no artifact of this class has been persisted")
	ErrRunNotFound      = errors.New("pipeline run not found")
)

// Persistence errors
var (
	ErrPersistFailed = errors.New("artifact write could not complete")
)

// Validation errors. A failed verdict is a normal outcome, not an error;
// these cover inputs the pipeline cannot act on at all.
var (
	ErrInvalidClass      = errors.New("unknown artifact class")
	ErrModelUndecodable  = errors.New("stored model artifact cannot be decoded")
	ErrValidationFailed  = errors.New("validation verdict did not pass")
	ErrEmptyDataset      = errors.New("dataset contains no rows")
	ErrUnlabeledDataset  = errors.New("dataset carries no labels")
	ErrFeatureWidthDrift = errors.New("feature count does not match the trained model")
)
