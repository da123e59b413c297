package provider

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

const (
	YahooDefaultBaseURL = "https://query1.finance.yahoo.com"
	yahooChartPath      = "/v8/finance/chart/{symbol}"
	yahooUserAgent      = "Mozilla/5.0 (compatible; argo-indicators)"
)

// YahooChartResponse is the top-level container of the chart endpoint.
type YahooChartResponse struct {
	Chart YahooChartData `json:"chart"`
}

type YahooChartData struct {
	Result []YahooChartResult `json:"result"`
	Error  *YahooChartError   `json:"error"`
}

type YahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type YahooChartResult struct {
	Meta       YahooChartMeta       `json:"meta"`
	Timestamp  []int64              `json:"timestamp"`
	Indicators YahooChartIndicators `json:"indicators"`
}

type YahooChartMeta struct {
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
}

type YahooChartIndicators struct {
	Quote []YahooChartQuote `json:"quote"`
}

// YahooChartQuote holds parallel arrays. Entries are null where the bar has no data.
type YahooChartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// YahooClient fetches quotes from the public Yahoo Finance chart API. No API key is needed.
type YahooClient struct {
	client *resty.Client
}

// NewYahooClient creates a client against the public endpoint.
func NewYahooClient() (Provider, error) {
	return NewYahooClientWithBaseURL(YahooDefaultBaseURL), nil
}

// NewYahooClientWithBaseURL creates a client against a custom host, e.g. a mock server.
func NewYahooClientWithBaseURL(baseURL string) *YahooClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", yahooUserAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &YahooClient{client: client}
}

func (c *YahooClient) Name() ProviderType { return ProviderYahoo }

// Fetch requests the chart for req.Ticker. A named range is sent as-is and takes
// precedence; otherwise period1/period2 bound the window.
func (c *YahooClient) Fetch(ctx context.Context, req FetchRequest) ([]types.Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	interval, err := convertTimespanToYahooInterval(req.Timespan, req.Multiplier)
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"interval":       interval,
		"includePrePost": "false",
		"events":         "div,splits",
	}

	if req.Range != "" {
		params["range"] = req.Range
	} else {
		end := req.End
		if end.IsZero() {
			end = time.Now()
		}

		params["period1"] = strconv.FormatInt(req.Start.Unix(), 10)
		params["period2"] = strconv.FormatInt(end.Unix(), 10)
	}

	reportProgress(req, 0, 1, fmt.Sprintf("Fetching %s from Yahoo", req.Ticker))

	var body YahooChartResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", req.Ticker).
		SetQueryParams(params).
		SetResult(&body).
		SetError(&body).
		Get(yahooChartPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "yahoo request for %s failed", req.Ticker)
	}

	if body.Chart.Error != nil {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "yahoo returned %s for %s: %s", body.Chart.Error.Code, req.Ticker, body.Chart.Error.Description)
	}

	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "yahoo returned HTTP %d for %s", resp.StatusCode(), req.Ticker)
	}

	quotes, err := parseYahooChart(body)
	if err != nil {
		return nil, err
	}

	reportProgress(req, 1, 1, fmt.Sprintf("Fetched %d quotes for %s", len(quotes), req.Ticker))

	return quotes, nil
}

// parseYahooChart flattens the parallel arrays into quotes. Bars where every price is
// null are dropped; a bar with only some prices null keeps NaN in those fields so the
// malformed-quote policy downstream decides what happens to it.
func parseYahooChart(body YahooChartResponse) ([]types.Quote, error) {
	if len(body.Chart.Result) == 0 {
		return nil, errors.New(errors.ErrCodeNoDataFound, "yahoo chart has no result")
	}

	result := body.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return []types.Quote{}, nil
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, errors.New(errors.ErrCodeMarketDataParseFailed, "yahoo chart has timestamps but no quote arrays")
	}

	q := result.Indicators.Quote[0]
	n := len(result.Timestamp)

	for name, arr := range map[string][]*float64{"open": q.Open, "high": q.High, "low": q.Low, "close": q.Close} {
		if len(arr) != n {
			return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed, "yahoo %s array has %d entries, expected %d", name, len(arr), n)
		}
	}

	quotes := make([]types.Quote, 0, n)

	for i, ts := range result.Timestamp {
		if q.Open[i] == nil && q.High[i] == nil && q.Low[i] == nil && q.Close[i] == nil {
			continue
		}

		volume := 0.0
		if i < len(q.Volume) && q.Volume[i] != nil {
			volume = *q.Volume[i]
		}

		quotes = append(quotes, types.Quote{
			Timestamp: ts,
			Open:      valueOrNaN(q.Open[i]),
			High:      valueOrNaN(q.High[i]),
			Low:       valueOrNaN(q.Low[i]),
			Close:     valueOrNaN(q.Close[i]),
			Volume:    volume,
		})
	}

	return quotes, nil
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}

	return *v
}

// convertTimespanToYahooInterval maps multiplier+timespan onto the chart API's interval.
// Yahoo intervals: 1m, 2m, 5m, 15m, 30m, 60m, 90m, 1h, 1d, 5d, 1wk, 1mo, 3mo
func convertTimespanToYahooInterval(timespan models.Timespan, multiplier int) (string, error) {
	switch timespan {
	case models.Minute:
		switch multiplier {
		case 1, 2, 5, 15, 30, 60, 90:
			return fmt.Sprintf("%dm", multiplier), nil
		}
	case models.Hour:
		if multiplier == 1 {
			return "1h", nil
		}
	case models.Day:
		if multiplier == 1 || multiplier == 5 {
			return fmt.Sprintf("%dd", multiplier), nil
		}
	case models.Week:
		if multiplier == 1 {
			return "1wk", nil
		}
	case models.Month:
		if multiplier == 1 || multiplier == 3 {
			return fmt.Sprintf("%dmo", multiplier), nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval for Yahoo: %d %s", multiplier, timespan)
}
