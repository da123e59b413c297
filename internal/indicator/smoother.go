package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// Smoother is the single-state exponential recurrence
//
//	state = alpha*price + (1-alpha)*state
//
// shared by EMA, MACD and RSI.
type Smoother struct {
	period int
	alpha  float64
	seed   types.SeedMode
	state  optional.Option[float64]

	// running sum used only by the SMA seed variant
	warmupCount int
	warmupSum   float64
}

// NewSmoother creates a smoother with alpha = 2/(period+1), seeded on the first price.
func NewSmoother(period int) (*Smoother, error) {
	return NewSmootherWithSeed(period, types.SeedFirstPrice)
}

// NewSmootherWithSeed creates a smoother with alpha = 2/(period+1) and the given seeding.
// With SeedSMA the output during the first period inputs is the running mean of those
// inputs and the recurrence starts from their average.
func NewSmootherWithSeed(period int, seed types.SeedMode) (*Smoother, error) {
	if period < 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "smoothing period must be a positive integer, got %d", period)
	}

	if seed == "" {
		seed = types.SeedFirstPrice
	}

	if seed != types.SeedFirstPrice && seed != types.SeedSMA {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown seed mode %q", seed)
	}

	return &Smoother{
		period: period,
		alpha:  2.0 / float64(period+1),
		seed:   seed,
		state:  optional.None[float64](),
	}, nil
}

// NewWilderSmoother creates a first-price seeded smoother with alpha = 1/period.
func NewWilderSmoother(period int) (*Smoother, error) {
	s, err := NewSmoother(period)
	if err != nil {
		return nil, err
	}

	s.alpha = 1.0 / float64(period)

	return s, nil
}

// Advance feeds one price and returns the new state.
func (s *Smoother) Advance(price float64) float64 {
	if s.seed == types.SeedSMA && s.warmupCount < s.period {
		s.warmupCount++
		s.warmupSum += price
		mean := s.warmupSum / float64(s.warmupCount)
		s.state = optional.Some(mean)

		return mean
	}

	if s.state.IsNone() {
		s.state = optional.Some(price)

		return price
	}

	next := s.alpha*price + (1-s.alpha)*s.state.Unwrap()
	s.state = optional.Some(next)

	return next
}

// Value returns the current state. ok is false before the first Advance.
func (s *Smoother) Value() (value float64, ok bool) {
	if s.state.IsNone() {
		return 0, false
	}

	return s.state.Unwrap(), true
}

// Alpha returns the smoothing constant.
func (s *Smoother) Alpha() float64 { return s.alpha }

// Period returns the period fixed at construction.
func (s *Smoother) Period() int { return s.period }

// Reset clears the state for reuse.
func (s *Smoother) Reset() {
	s.state = optional.None[float64]()
	s.warmupCount = 0
	s.warmupSum = 0
}
