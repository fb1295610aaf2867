package ports

// Learner is the four-operation contract the pipeline requires from a
// learning library: fit, predict, per-class probabilities and the ordered
// label set. MarshalBinary produces the opaque model payload handed to the
// artifact store.
type Learner interface {
	Fit(features [][]float64, labels []int) error
	Predict(features [][]float64) ([]int, error)
	PredictProba(features [][]float64) ([][]float64, error)
	Classes() []int
	MarshalBinary() ([]byte, error)
}

// ModelCodec reconstructs a Learner from a stored model payload.
type ModelCodec interface {
	Decode(payload []byte) (Learner, error)
}
