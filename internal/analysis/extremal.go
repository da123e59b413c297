// Package analysis holds the aggregate folds computed over a whole quote batch,
// independent of the streaming indicators.
package analysis

import (
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// Extremes scans quotes in order and returns the highest and lowest close.
// Ties keep the earliest quote.
func Extremes(quotes []types.Quote) (types.ExtremalResult, error) {
	if len(quotes) == 0 {
		return types.ExtremalResult{}, errors.New(errors.ErrCodeEmptyInput, "cannot compute extremes of an empty quote batch")
	}

	first := quotes[0]
	result := types.ExtremalResult{
		MaxTimestamp: first.Timestamp,
		MaxClose:     first.Close,
		MinTimestamp: first.Timestamp,
		MinClose:     first.Close,
	}

	for _, q := range quotes[1:] {
		if q.Close > result.MaxClose {
			result.MaxTimestamp = q.Timestamp
			result.MaxClose = q.Close
		}

		if q.Close < result.MinClose {
			result.MinTimestamp = q.Timestamp
			result.MinClose = q.Close
		}
	}

	return result, nil
}
