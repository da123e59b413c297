// Package engine turns a quote batch into indicator series and aggregate analyses,
// and orchestrates fetch, compute and output in a Pipeline.
package engine

import (
	"time"

	"github.com/rxtech-lab/argo-indicators/internal/analysis"
	"github.com/rxtech-lab/argo-indicators/internal/indicator"
	"github.com/rxtech-lab/argo-indicators/internal/logger"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"go.uber.org/zap"
)

// QuotePolicy decides what happens to a quote carrying a non-finite value.
type QuotePolicy string

const (
	// QuotePolicyAbort fails the whole batch on the first malformed quote.
	QuotePolicyAbort QuotePolicy = "abort"
	// QuotePolicySkip drops malformed quotes and records them in the result.
	QuotePolicySkip QuotePolicy = "skip"
)

var AllQuotePolicies = []QuotePolicy{QuotePolicyAbort, QuotePolicySkip}

// ParseQuotePolicy validates a policy name. The empty string means abort.
func ParseQuotePolicy(s string) (QuotePolicy, error) {
	switch QuotePolicy(s) {
	case "", QuotePolicyAbort:
		return QuotePolicyAbort, nil
	case QuotePolicySkip:
		return QuotePolicySkip, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unknown quote policy %q (want abort or skip)", s)
	}
}

// Engine computes indicator series over quote batches. It keeps no state between
// calls: every Compute builds fresh indicator instances, so one Engine can serve
// many instruments sequentially.
type Engine struct {
	registry indicator.IndicatorRegistry
	policy   QuotePolicy
	log      *logger.Logger
}

// NewEngine creates an engine. A nil registry uses the built-in indicators and a
// nil logger discards output.
func NewEngine(registry indicator.IndicatorRegistry, policy QuotePolicy, log *logger.Logger) *Engine {
	if registry == nil {
		registry = indicator.NewIndicatorRegistry()
	}

	if policy == "" {
		policy = QuotePolicyAbort
	}

	return &Engine{
		registry: registry,
		policy:   policy,
		log:      log.Named("engine"),
	}
}

// Policy returns the malformed-quote policy in effect.
func (e *Engine) Policy() QuotePolicy {
	return e.policy
}

// Compute validates quotes, feeds every accepted close through a fresh instance
// of each configured indicator and runs the aggregate analyses.
//
// Every returned series has exactly one point per accepted quote.
func (e *Engine) Compute(symbol, interval string, quotes []types.Quote, configs []types.IndicatorConfig) (*types.AnalysisResult, error) {
	if len(quotes) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptyInput, "no quotes to analyse for %s", symbol)
	}

	indicators := make([]indicator.Indicator, 0, len(configs))

	for _, cfg := range configs {
		ind, err := e.registry.Build(cfg)
		if err != nil {
			return nil, err
		}

		indicators = append(indicators, ind)
	}

	accepted, skipped, err := e.filter(quotes)
	if err != nil {
		return nil, err
	}

	if len(accepted) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptyInput, "all %d quotes for %s were malformed", len(quotes), symbol)
	}

	if err := types.ValidateOrder(accepted); err != nil {
		return nil, err
	}

	start := time.Now()

	series := make([]types.IndicatorSeries, 0, len(indicators))
	for _, ind := range indicators {
		series = append(series, computeSeries(ind, accepted))
	}

	extremal, err := analysis.Extremes(accepted)
	if err != nil {
		return nil, err
	}

	e.log.Debug("Computed indicators",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("quotes", len(accepted)),
		zap.Int("skipped", len(skipped)),
		zap.Int("indicators", len(indicators)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &types.AnalysisResult{
		Symbol:     symbol,
		Interval:   interval,
		Quotes:     accepted,
		Series:     series,
		Extremal:   extremal,
		Volatility: analysis.Volatility(accepted),
		Skipped:    skipped,
	}, nil
}

// filter applies the quote policy.
func (e *Engine) filter(quotes []types.Quote) ([]types.Quote, []types.SkippedQuote, error) {
	accepted := make([]types.Quote, 0, len(quotes))

	var skipped []types.SkippedQuote

	for i, q := range quotes {
		err := q.Validate()
		if err == nil {
			accepted = append(accepted, q)

			continue
		}

		if e.policy == QuotePolicyAbort {
			return nil, nil, errors.Wrapf(errors.ErrCodeMalformedQuote, err, "quote %d rejected", i)
		}

		e.log.Warn("Skipping malformed quote",
			zap.Int("index", i),
			zap.Int64("timestamp", q.Timestamp),
			zap.Error(err),
		)

		skipped = append(skipped, types.SkippedQuote{
			Index:     i,
			Timestamp: q.Timestamp,
			Reason:    err.Error(),
		})
	}

	return accepted, skipped, nil
}

func computeSeries(ind indicator.Indicator, quotes []types.Quote) types.IndicatorSeries {
	points := make([]types.SeriesPoint, len(quotes))
	for i, q := range quotes {
		points[i] = types.SeriesPoint{
			Timestamp: q.Timestamp,
			Values:    ind.Step(q.Close),
		}
	}

	return types.IndicatorSeries{
		Type:    ind.Name(),
		Label:   ind.Label(),
		Columns: ind.Columns(),
		Points:  points,
	}
}
