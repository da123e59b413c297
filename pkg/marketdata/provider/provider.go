package provider

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderYahoo   ProviderType = "yahoo"
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
	ProviderAlpaca  ProviderType = "alpaca"
	ProviderCSV     ProviderType = "csv"
	ProviderParquet ProviderType = "parquet"
)

type OnDownloadProgress = func(current float64, total float64, message string)

// FetchRequest describes one instrument/interval/window triple.
type FetchRequest struct {
	Ticker     string
	Start      time.Time
	End        time.Time
	Multiplier int
	Timespan   models.Timespan
	// Range is the named lookback ("6mo") the window was derived from.
	// Providers with native range support may use it instead of Start and End.
	Range string
	// OnProgress is optional.
	OnProgress OnDownloadProgress
}

// Provider fetches a finite, historical quote batch. A failed fetch returns no quotes.
type Provider interface {
	// Name returns the provider type, e.g. "yahoo".
	Name() ProviderType
	// Fetch returns the quotes in the requested window.
	// The context can be used to cancel the fetch.
	Fetch(ctx context.Context, req FetchRequest) ([]types.Quote, error)
}

func reportProgress(req FetchRequest, current, total float64, message string) {
	if req.OnProgress != nil {
		req.OnProgress(current, total, message)
	}
}

func validateRequest(req FetchRequest) error {
	if req.Ticker == "" {
		return errors.New(errors.ErrCodeMissingParameter, "ticker is required")
	}

	if req.Multiplier < 1 {
		return errors.Newf(errors.ErrCodeInvalidTimespan, "multiplier must be positive, got %d", req.Multiplier)
	}

	if !req.End.IsZero() && !req.Start.IsZero() && req.End.Before(req.Start) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "end %s is before start %s", req.End.Format(time.RFC3339), req.Start.Format(time.RFC3339))
	}

	return nil
}

// inWindow reports whether ts (seconds) falls in [start, end]. Zero bounds are open.
func inWindow(ts int64, start, end time.Time) bool {
	if !start.IsZero() && ts < start.Unix() {
		return false
	}

	if !end.IsZero() && ts > end.Unix() {
		return false
	}

	return true
}

// SanitizeVolume replaces NaN or infinite volumes with 0 in place and returns quotes.
func SanitizeVolume(quotes []types.Quote) []types.Quote {
	for i := range quotes {
		if math.IsNaN(quotes[i].Volume) || math.IsInf(quotes[i].Volume, 0) {
			quotes[i].Volume = 0
		}
	}

	return quotes
}

// SortAndDedupe orders quotes by timestamp and keeps the first quote seen for each timestamp.
func SortAndDedupe(quotes []types.Quote) []types.Quote {
	sorted := make([]types.Quote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	out := make([]types.Quote, 0, len(sorted))
	for _, q := range sorted {
		if len(out) > 0 && out[len(out)-1].Timestamp == q.Timestamp {
			continue
		}

		out = append(out, q)
	}

	return out
}
