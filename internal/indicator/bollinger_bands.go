package indicator

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// BollingerBands implements SMA ± multiplier × rolling population standard deviation.
// During warm-up the band width is computed over the smaller sample.
type BollingerBands struct {
	window     *Window
	multiplier float64
}

// NewBollingerBands creates Bollinger Bands over period prices with the given multiplier (typically 2.0).
func NewBollingerBands(period int, multiplier float64) (*BollingerBands, error) {
	if multiplier <= 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		return nil, errors.Newf(errors.ErrCodeInvalidMultiplier, "multiplier must be a positive number, got %v", multiplier)
	}

	w, err := NewWindow(period)
	if err != nil {
		return nil, err
	}

	return &BollingerBands{
		window:     w,
		multiplier: multiplier,
	}, nil
}

func (bb *BollingerBands) Name() types.IndicatorType { return types.IndicatorTypeBollingerBands }

func (bb *BollingerBands) Label() string {
	return fmt.Sprintf("BB(%d,%g)", bb.window.Period(), bb.multiplier)
}

func (bb *BollingerBands) Columns() []string {
	return []string{ColumnAverage, ColumnUpper, ColumnLower}
}

// Advance pushes price and returns the middle, upper and lower bands.
func (bb *BollingerBands) Advance(price float64) types.BollingerValue {
	bb.window.Push(price)

	average := bb.window.Mean()
	dev := bb.window.PopulationStdDev()

	return types.BollingerValue{
		Average: average,
		Upper:   average + bb.multiplier*dev,
		Lower:   average - bb.multiplier*dev,
	}
}

func (bb *BollingerBands) Step(price float64) []float64 {
	v := bb.Advance(price)

	return []float64{v.Average, v.Upper, v.Lower}
}

func (bb *BollingerBands) Reset() { bb.window.Reset() }
