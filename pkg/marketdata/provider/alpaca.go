package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v2/marketdata"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

const AlpacaDefaultBaseURL = "https://data.alpaca.markets"

// AlpacaAPIClient is the subset of the alpaca market data client used by AlpacaClient.
type AlpacaAPIClient interface {
	GetBars(symbol string, params marketdata.GetBarsParams) ([]marketdata.Bar, error)
}

type AlpacaClient struct {
	apiClient AlpacaAPIClient
}

// NewAlpacaClient creates a client for the alpaca data API. An empty baseURL uses the public host.
func NewAlpacaClient(apiKey, apiSecret, baseURL string) (Provider, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "alpaca apiKey and apiSecret are required")
	}

	if baseURL == "" {
		baseURL = AlpacaDefaultBaseURL
	}

	client := marketdata.NewClient(marketdata.ClientOpts{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
		BaseURL:   baseURL,
	})

	return NewAlpacaClientWithAPI(client), nil
}

// NewAlpacaClientWithAPI creates an AlpacaClient over any AlpacaAPIClient.
func NewAlpacaClientWithAPI(apiClient AlpacaAPIClient) *AlpacaClient {
	return &AlpacaClient{apiClient: apiClient}
}

func (c *AlpacaClient) Name() ProviderType { return ProviderAlpaca }

// Fetch loads bars in one call; the alpaca client pages internally. The SDK call takes
// no context, so cancellation is only checked before the request.
func (c *AlpacaClient) Fetch(ctx context.Context, req FetchRequest) ([]types.Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	timeFrame, err := convertTimespanToAlpacaTimeFrame(req.Timespan, req.Multiplier)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "alpaca fetch cancelled", err)
	}

	end := req.End
	if end.IsZero() {
		end = time.Now()
	}

	reportProgress(req, 0, 1, fmt.Sprintf("Fetching %s bars from Alpaca", req.Ticker))

	//nolint:exhaustruct // third-party struct with many optional fields
	bars, err := c.apiClient.GetBars(req.Ticker, marketdata.GetBarsParams{
		TimeFrame: timeFrame,
		Start:     req.Start,
		End:       end,
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch bars for %s from Alpaca", req.Ticker)
	}

	quotes := make([]types.Quote, 0, len(bars))
	for _, bar := range bars {
		quotes = append(quotes, types.Quote{
			Timestamp: bar.Timestamp.Unix(),
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    float64(bar.Volume),
		})
	}

	reportProgress(req, 1, 1, fmt.Sprintf("Fetched %d bars for %s", len(quotes), req.Ticker))

	return quotes, nil
}

func convertTimespanToAlpacaTimeFrame(timespan models.Timespan, multiplier int) (marketdata.TimeFrame, error) {
	switch timespan {
	case models.Minute:
		return marketdata.NewTimeFrame(multiplier, marketdata.Min), nil
	case models.Hour:
		return marketdata.NewTimeFrame(multiplier, marketdata.Hour), nil
	case models.Day:
		return marketdata.NewTimeFrame(multiplier, marketdata.Day), nil
	default:
		return marketdata.TimeFrame{}, errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported timespan for Alpaca: %d %s", multiplier, timespan)
	}
}
