package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-indicators/internal/types"
)

// SMA is the arithmetic mean of the last period prices.
type SMA struct {
	window *Window
}

// NewSMA creates a simple moving average over period prices.
func NewSMA(period int) (*SMA, error) {
	w, err := NewWindow(period)
	if err != nil {
		return nil, err
	}

	return &SMA{window: w}, nil
}

func (s *SMA) Name() types.IndicatorType { return types.IndicatorTypeSMA }

func (s *SMA) Label() string { return fmt.Sprintf("SMA(%d)", s.window.Period()) }

func (s *SMA) Columns() []string { return []string{ColumnValue} }

// Advance pushes price and returns the mean of the window.
func (s *SMA) Advance(price float64) float64 {
	s.window.Push(price)

	return s.window.Mean()
}

func (s *SMA) Step(price float64) []float64 {
	return []float64{s.Advance(price)}
}

// Ready reports whether a full period has been seen.
func (s *SMA) Ready() bool { return s.window.Full() }

func (s *SMA) Reset() { s.window.Reset() }
