package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-indicators/internal/types"
)

// EMA indicator implements Exponential Moving Average calculation.
// Two EMAs of different periods are independent instances; nothing couples them.
type EMA struct {
	smoother *Smoother
	seed     types.SeedMode
}

// NewEMA creates an EMA seeded on the first price.
func NewEMA(period int) (*EMA, error) {
	return NewEMAWithSeed(period, types.SeedFirstPrice)
}

// NewEMAWithSeed creates an EMA with an explicit seeding mode.
func NewEMAWithSeed(period int, seed types.SeedMode) (*EMA, error) {
	s, err := NewSmootherWithSeed(period, seed)
	if err != nil {
		return nil, err
	}

	return &EMA{smoother: s, seed: s.seed}, nil
}

func (e *EMA) Name() types.IndicatorType { return types.IndicatorTypeEMA }

func (e *EMA) Label() string {
	return types.IndicatorConfig{Type: types.IndicatorTypeEMA, Period: e.smoother.Period(), Seed: e.seed}.Label()
}

func (e *EMA) Columns() []string { return []string{ColumnValue} }

// Advance delegates to the smoother.
func (e *EMA) Advance(price float64) float64 {
	return e.smoother.Advance(price)
}

func (e *EMA) Step(price float64) []float64 {
	return []float64{e.Advance(price)}
}

func (e *EMA) Reset() { e.smoother.Reset() }

// String is used in log fields.
func (e *EMA) String() string { return fmt.Sprintf("ema(period=%d, alpha=%.6f)", e.smoother.Period(), e.smoother.Alpha()) }
