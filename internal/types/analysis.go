package types

// ExtremalResult records the highest and lowest close of a batch.
// On ties the earliest quote wins.
type ExtremalResult struct {
	MaxTimestamp int64   `json:"max_timestamp" yaml:"max_timestamp"`
	MaxClose     float64 `json:"max_close" yaml:"max_close"`
	MinTimestamp int64   `json:"min_timestamp" yaml:"min_timestamp"`
	MinClose     float64 `json:"min_close" yaml:"min_close"`
}

// VolatilityFlag marks whether a single quote's range was wide relative to its close.
type VolatilityFlag struct {
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`
	Volatile  bool  `json:"volatile" yaml:"volatile"`
}

// SkippedQuote records a quote dropped by the skip policy.
type SkippedQuote struct {
	Index     int    `json:"index" yaml:"index"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Reason    string `json:"reason" yaml:"reason"`
}

// AnalysisResult is everything computed from one quote batch.
// Every series has exactly len(Quotes) points.
type AnalysisResult struct {
	Symbol     string            `json:"symbol" yaml:"symbol"`
	Interval   string            `json:"interval" yaml:"interval"`
	Quotes     []Quote           `json:"quotes" yaml:"quotes"`
	Series     []IndicatorSeries `json:"series" yaml:"series"`
	Extremal   ExtremalResult    `json:"extremal" yaml:"extremal"`
	Volatility []VolatilityFlag  `json:"volatility" yaml:"volatility"`
	Skipped    []SkippedQuote    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// VolatileCount returns how many quotes were flagged volatile.
func (r AnalysisResult) VolatileCount() int {
	count := 0

	for _, v := range r.Volatility {
		if v.Volatile {
			count++
		}
	}

	return count
}

// SeriesByLabel finds a series by its label.
func (r AnalysisResult) SeriesByLabel(label string) (IndicatorSeries, bool) {
	for _, s := range r.Series {
		if s.Label == label {
			return s, true
		}
	}

	return IndicatorSeries{}, false
}
