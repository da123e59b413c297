// Package report summarizes analysis results for the terminal and for disk.
package report

import (
	"math"
	"os"
	"time"

	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultPlaces is the number of decimals kept for prices and indicator values.
const DefaultPlaces = 4

// PricePoint is a close price at a point in time.
type PricePoint struct {
	Time  time.Time       `yaml:"time"`
	Close decimal.Decimal `yaml:"close"`
}

// ColumnValue is one named output value. Undefined marks a NaN or infinite
// value, whose Value is zero.
type ColumnValue struct {
	Column    string          `yaml:"column"`
	Value     decimal.Decimal `yaml:"value"`
	Undefined bool            `yaml:"undefined,omitempty"`
}

// SeriesSummary holds the final output of one indicator.
type SeriesSummary struct {
	Label  string        `yaml:"label"`
	Values []ColumnValue `yaml:"values"`
}

// Summary is the human facing digest of one analysis run.
type Summary struct {
	RunID         string          `yaml:"run_id,omitempty"`
	Symbol        string          `yaml:"symbol"`
	Interval      string          `yaml:"interval"`
	From          time.Time       `yaml:"from"`
	To            time.Time       `yaml:"to"`
	Quotes        int             `yaml:"quotes"`
	Skipped       int             `yaml:"skipped"`
	Max           PricePoint      `yaml:"max"`
	Min           PricePoint      `yaml:"min"`
	LastClose     decimal.Decimal `yaml:"last_close"`
	VolatileCount int             `yaml:"volatile_count"`
	VolatileRatio decimal.Decimal `yaml:"volatile_ratio"`
	Series        []SeriesSummary `yaml:"series"`
	Artifacts     []string        `yaml:"artifacts,omitempty"`
}

// NewSummary digests result, rounding prices and values to places decimals.
func NewSummary(runID string, result *types.AnalysisResult, places int32) (Summary, error) {
	if result == nil || len(result.Quotes) == 0 {
		return Summary{}, errors.New(errors.ErrCodeEmptyInput, "cannot summarize an empty result")
	}

	first := result.Quotes[0]
	last := result.Quotes[len(result.Quotes)-1]
	volatile := result.VolatileCount()

	series := make([]SeriesSummary, 0, len(result.Series))

	for _, s := range result.Series {
		point, ok := s.Last()
		if !ok {
			continue
		}

		values := make([]ColumnValue, len(s.Columns))
		for i, column := range s.Columns {
			v := point.Values[i]
			values[i] = ColumnValue{
				Column:    column,
				Value:     round(v, places),
				Undefined: !isFinite(v),
			}
		}

		series = append(series, SeriesSummary{
			Label:  s.Label,
			Values: values,
		})
	}

	return Summary{
		RunID:    runID,
		Symbol:   result.Symbol,
		Interval: result.Interval,
		From:     first.Time(),
		To:       last.Time(),
		Quotes:   len(result.Quotes),
		Skipped:  len(result.Skipped),
		Max: PricePoint{
			Time:  time.Unix(result.Extremal.MaxTimestamp, 0).UTC(),
			Close: round(result.Extremal.MaxClose, places),
		},
		Min: PricePoint{
			Time:  time.Unix(result.Extremal.MinTimestamp, 0).UTC(),
			Close: round(result.Extremal.MinClose, places),
		},
		LastClose:     round(last.Close, places),
		VolatileCount: volatile,
		VolatileRatio: decimal.NewFromInt(int64(volatile)).Div(decimal.NewFromInt(int64(len(result.Quotes)))).Round(places),
		Series:        series,
		Artifacts:     nil,
	}, nil
}

// WriteSummary writes s as YAML to path.
func WriteSummary(path string, s Summary) error {
	content, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to marshal summary", err)
	}

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write %s", path)
	}

	return nil
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (Summary, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to read %s", path)
	}

	var s Summary
	if err := yaml.Unmarshal(content, &s); err != nil {
		return Summary{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to parse %s", path)
	}

	return s, nil
}

// round converts v to a decimal. decimal panics on NaN and Inf, so those become zero.
func round(v float64, places int32) decimal.Decimal {
	if !isFinite(v) {
		return decimal.Zero
	}

	return decimal.NewFromFloat(v).Round(places)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
