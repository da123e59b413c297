package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-indicators/internal/types"
)

// MACD represents the Moving Average Convergence Divergence indicator.
//
// The signal line is an EMA of the macd line, not of the price, and it is
// advanced exactly once per price in lock-step with the two price EMAs.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int

	fast   *Smoother
	slow   *Smoother
	signal *Smoother
}

// NewMACD creates MACD with first-price seeded smoothers (typically 12, 26, 9).
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) (*MACD, error) {
	return NewMACDWithSeed(fastPeriod, slowPeriod, signalPeriod, types.SeedFirstPrice)
}

// NewMACDWithSeed creates MACD whose three smoothers share the given seeding mode.
func NewMACDWithSeed(fastPeriod, slowPeriod, signalPeriod int, seed types.SeedMode) (*MACD, error) {
	fast, err := NewSmootherWithSeed(fastPeriod, seed)
	if err != nil {
		return nil, fmt.Errorf("fast period: %w", err)
	}

	slow, err := NewSmootherWithSeed(slowPeriod, seed)
	if err != nil {
		return nil, fmt.Errorf("slow period: %w", err)
	}

	signal, err := NewSmootherWithSeed(signalPeriod, seed)
	if err != nil {
		return nil, fmt.Errorf("signal period: %w", err)
	}

	return &MACD{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
		fast:         fast,
		slow:         slow,
		signal:       signal,
	}, nil
}

func (m *MACD) Name() types.IndicatorType { return types.IndicatorTypeMACD }

func (m *MACD) Label() string {
	return fmt.Sprintf("MACD(%d,%d,%d)", m.fastPeriod, m.slowPeriod, m.signalPeriod)
}

func (m *MACD) Columns() []string {
	return []string{ColumnMACD, ColumnSignal, ColumnHistogram}
}

// Advance feeds one price and returns the macd line, the signal line and their difference.
func (m *MACD) Advance(price float64) types.MACDValue {
	macd := m.fast.Advance(price) - m.slow.Advance(price)
	signal := m.signal.Advance(macd)

	return types.MACDValue{
		MACD:      macd,
		Signal:    signal,
		Histogram: macd - signal,
	}
}

func (m *MACD) Step(price float64) []float64 {
	v := m.Advance(price)

	return []float64{v.MACD, v.Signal, v.Histogram}
}

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
}
