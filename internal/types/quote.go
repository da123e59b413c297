package types

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// Quote is one sampled observation of an instrument.
// Timestamp is in seconds since the Unix epoch.
type Quote struct {
	Timestamp int64   `csv:"timestamp" json:"timestamp" yaml:"timestamp"`
	Open      float64 `csv:"open" json:"open" yaml:"open"`
	High      float64 `csv:"high" json:"high" yaml:"high"`
	Low       float64 `csv:"low" json:"low" yaml:"low"`
	Close     float64 `csv:"close" json:"close" yaml:"close"`
	Volume    float64 `csv:"volume" json:"volume" yaml:"volume"`
}

// Time returns the quote timestamp as a UTC time.
func (q Quote) Time() time.Time {
	return time.Unix(q.Timestamp, 0).UTC()
}

// Validate rejects quotes whose high, low or close is NaN or infinite. Those are
// the fields that reach the indicators and the volatility check; open and volume
// are carried through untouched.
// low <= close <= high is expected but not enforced.
func (q Quote) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"high", q.High},
		{"low", q.Low},
		{"close", q.Close},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.Newf(errors.ErrCodeMalformedQuote, "quote at %d has non-finite %s: %v", q.Timestamp, f.name, f.value)
		}
	}

	return nil
}

// ValidateOrder checks that timestamps are strictly increasing.
func ValidateOrder(quotes []Quote) error {
	for i := 1; i < len(quotes); i++ {
		prev, curr := quotes[i-1].Timestamp, quotes[i].Timestamp
		if curr == prev {
			return errors.Newf(errors.ErrCodeUnorderedQuotes, "duplicate timestamp %d at index %d", curr, i)
		}

		if curr < prev {
			return errors.Newf(errors.ErrCodeUnorderedQuotes, "timestamp %d at index %d is before %d", curr, i, prev)
		}
	}

	return nil
}

// Closes extracts the close prices in order.
func Closes(quotes []Quote) []float64 {
	closes := make([]float64, len(quotes))
	for i, q := range quotes {
		closes[i] = q.Close
	}

	return closes
}
