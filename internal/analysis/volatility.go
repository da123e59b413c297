package analysis

import "github.com/rxtech-lab/argo-indicators/internal/types"

// VolatilityThreshold is the high-low range, as a fraction of close, above which a quote is volatile.
const VolatilityThreshold = 0.02

// IsVolatile reports whether (high - low) > VolatilityThreshold * close.
func IsVolatile(q types.Quote) bool {
	return (q.High - q.Low) > VolatilityThreshold*q.Close
}

// Volatility classifies every quote, preserving order.
func Volatility(quotes []types.Quote) []types.VolatilityFlag {
	flags := make([]types.VolatilityFlag, len(quotes))
	for i, q := range quotes {
		flags[i] = types.VolatilityFlag{
			Timestamp: q.Timestamp,
			Volatile:  IsVolatile(q),
		}
	}

	return flags
}
