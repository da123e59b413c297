package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// PolygonAggsIterator is the subset of the polygon iterator used by PolygonClient.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the subset of the polygon REST client used by PolygonClient.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPIAdapter struct {
	client *polygon.Client
}

func (a *polygonAPIAdapter) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return a.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "apiKey is required")
	}

	return &PolygonClient{
		apiClient: &polygonAPIAdapter{client: polygon.New(apiKey)},
	}, nil
}

// NewPolygonClientWithAPI creates a PolygonClient over any PolygonAPIClient.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
	}
}

func (c *PolygonClient) Name() ProviderType { return ProviderPolygon }

func (c *PolygonClient) Fetch(ctx context.Context, req FetchRequest) ([]types.Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	end := req.End
	if end.IsZero() {
		end = time.Now()
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     req.Ticker,
		Multiplier: req.Multiplier,
		Timespan:   req.Timespan,
		From:       models.Millis(req.Start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	totalSeconds := float64(end.Unix() - req.Start.Unix())
	iter := c.apiClient.ListAggs(ctx, params)
	quotes := make([]types.Quote, 0)

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "polygon fetch cancelled", err)
		}

		agg := iter.Item()
		ts := time.Time(agg.Timestamp)

		quotes = append(quotes, types.Quote{
			Timestamp: ts.Unix(),
			Open:      agg.Open,
			High:      agg.High,
			Low:       agg.Low,
			Close:     agg.Close,
			Volume:    agg.Volume,
		})

		if len(quotes)%1000 == 0 {
			reportProgress(req, float64(ts.Unix()-req.Start.Unix()), totalSeconds, fmt.Sprintf("Downloading %s", req.Ticker))
		}
	}

	if iter.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", iter.Err())
	}

	reportProgress(req, totalSeconds, totalSeconds, fmt.Sprintf("Downloaded %d bars for %s", len(quotes), req.Ticker))

	return quotes, nil
}
