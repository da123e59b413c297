package types

// SeriesPoint is one indicator output aligned with the quote that produced it.
type SeriesPoint struct {
	Timestamp int64     `json:"timestamp" yaml:"timestamp"`
	Values    []float64 `json:"values" yaml:"values"`
}

// IndicatorSeries holds the outputs of one indicator instance over a batch.
// Columns names the entries of every SeriesPoint.Values, in order.
type IndicatorSeries struct {
	Type    IndicatorType `json:"type" yaml:"type"`
	Label   string        `json:"label" yaml:"label"`
	Columns []string      `json:"columns" yaml:"columns"`
	Points  []SeriesPoint `json:"points" yaml:"points"`
}

// Len returns the number of points in the series.
func (s IndicatorSeries) Len() int {
	return len(s.Points)
}

// ColumnIndex returns the position of the named column or -1.
func (s IndicatorSeries) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}

	return -1
}

// Column extracts one column across all points.
// The second return is false when the column does not exist.
func (s IndicatorSeries) Column(name string) ([]float64, bool) {
	idx := s.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}

	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Values[idx]
	}

	return values, true
}

// Last returns the final point of the series.
func (s IndicatorSeries) Last() (SeriesPoint, bool) {
	if len(s.Points) == 0 {
		return SeriesPoint{}, false
	}

	return s.Points[len(s.Points)-1], true
}
