// Package indicator provides streaming technical indicators.
//
// Every indicator consumes one price per call and emits one output per call,
// including during warm-up, where outputs are computed over fewer samples than
// the nominal period. Instances are not safe for concurrent use; callers that
// analyse several instruments in parallel own one instance per instrument.
package indicator

import (
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// Indicator interface defines the uniform view of a streaming indicator used by the engine.
type Indicator interface {
	// Name returns the kind of the indicator
	Name() types.IndicatorType
	// Label returns a display name including parameters, e.g. "EMA(12)"
	Label() string
	// Columns names the values returned by Step, in order
	Columns() []string
	// Step advances the indicator by one price and returns its output values
	Step(price float64) []float64
	// Reset restores the state right after construction
	Reset()
}

// Column names shared by the indicators.
const (
	ColumnValue     = "value"
	ColumnAverage   = "average"
	ColumnUpper     = "upper"
	ColumnLower     = "lower"
	ColumnMACD      = "macd"
	ColumnSignal    = "signal"
	ColumnHistogram = "histogram"
)

// Compute feeds prices through ind in order and returns one output row per price.
// An empty price slice is an error rather than an empty result.
func Compute(ind Indicator, prices []float64) ([][]float64, error) {
	if len(prices) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptyInput, "%s received no prices", ind.Label())
	}

	out := make([][]float64, len(prices))
	for i, p := range prices {
		out[i] = ind.Step(p)
	}

	return out, nil
}

// ComputeScalar is Compute for single-column indicators.
func ComputeScalar(ind Indicator, prices []float64) ([]float64, error) {
	rows, err := Compute(ind, prices)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = row[0]
	}

	return values, nil
}
