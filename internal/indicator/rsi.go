package indicator

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-indicators/internal/types"
)

// RSI represents the Relative Strength Index indicator with Wilder smoothing (alpha = 1/period).
//
// The first price has no predecessor, so its gain and loss are both 0 and they
// seed the two averages. Whenever the average loss is exactly 0 the output is 100.
type RSI struct {
	period    int
	avgGain   *Smoother
	avgLoss   *Smoother
	prevPrice optional.Option[float64]
}

// NewRSI creates a new RSI indicator for the given period (typically 14).
func NewRSI(period int) (*RSI, error) {
	gain, err := NewWilderSmoother(period)
	if err != nil {
		return nil, err
	}

	loss, err := NewWilderSmoother(period)
	if err != nil {
		return nil, err
	}

	return &RSI{
		period:    period,
		avgGain:   gain,
		avgLoss:   loss,
		prevPrice: optional.None[float64](),
	}, nil
}

func (r *RSI) Name() types.IndicatorType { return types.IndicatorTypeRSI }

func (r *RSI) Label() string { return fmt.Sprintf("RSI(%d)", r.period) }

func (r *RSI) Columns() []string { return []string{ColumnValue} }

// Advance feeds one price and returns the RSI in [0, 100].
func (r *RSI) Advance(price float64) float64 {
	delta := 0.0
	if r.prevPrice.IsSome() {
		delta = price - r.prevPrice.Unwrap()
	}

	r.prevPrice = optional.Some(price)

	gain := math.Max(delta, 0)
	loss := math.Max(-delta, 0)

	avgGain := r.avgGain.Advance(gain)
	avgLoss := r.avgLoss.Advance(loss)

	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss

	return 100.0 - 100.0/(1.0+rs)
}

func (r *RSI) Step(price float64) []float64 {
	return []float64{r.Advance(price)}
}

// Averages returns the current smoothed gain and loss.
func (r *RSI) Averages() (avgGain, avgLoss float64) {
	avgGain, _ = r.avgGain.Value()
	avgLoss, _ = r.avgLoss.Value()

	return avgGain, avgLoss
}

func (r *RSI) Reset() {
	r.avgGain.Reset()
	r.avgLoss.Reset()
	r.prevPrice = optional.None[float64]()
}
