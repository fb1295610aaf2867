package domain

// Dataset is an in-memory feature table, optionally labeled. Features is
// row-major; every row has len(FeatureNames) columns.
type Dataset struct {
	FeatureNames []string
	Features     [][]float64
	Labels       []int
	Labeled      bool
}

func (d *Dataset) Rows() int {
	return len(d.Features)
}

func (d *Dataset) Cols() int {
	return len(d.FeatureNames)
}
