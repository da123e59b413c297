package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType = provider.ProviderType

const (
	ProviderYahoo   = provider.ProviderYahoo
	ProviderPolygon = provider.ProviderPolygon
	ProviderBinance = provider.ProviderBinance
	ProviderAlpaca  = provider.ProviderAlpaca
	ProviderCSV     = provider.ProviderCSV
	ProviderParquet = provider.ProviderParquet
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType    ProviderType `validate:"required,oneof=yahoo polygon binance alpaca csv parquet"`
	PolygonApiKey   string       `validate:"required_if=ProviderType polygon"`
	AlpacaApiKey    string       `validate:"required_if=ProviderType alpaca"`
	AlpacaApiSecret string       `validate:"required_if=ProviderType alpaca"`
	// DataPath is the source file for the csv and parquet providers.
	DataPath string `validate:"required_if=ProviderType csv,required_if=ProviderType parquet"`
	// BaseURL overrides the API host of the yahoo, binance and alpaca providers.
	BaseURL string
}

// SourceID names where a client built from c reads quotes: the provider plus its
// base URL or data file when set.
func (c ClientConfig) SourceID() string {
	id := string(c.ProviderType)

	switch {
	case c.DataPath != "":
		id += "@" + c.DataPath
	case c.BaseURL != "":
		id += "@" + c.BaseURL
	}

	return id
}

// FetchParams holds the parameters for a market data fetch.
// An explicit Start takes precedence over Range; End defaults to now.
type FetchParams struct {
	Ticker   string                     `validate:"required"`
	Interval Timespan                   `validate:"required"`
	Range    Range                      `validate:"omitempty"`
	Start    optional.Option[time.Time] `validate:"-"`
	End      optional.Option[time.Time] `validate:"-"`
}

// Client is the market data connector. It is constructed explicitly and passed to
// whatever needs quotes; there is no package-level instance.
type Client struct {
	provider   provider.Provider
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	now        func() time.Time
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := newProvider(config)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider:   marketProvider,
		validate:   validate,
		onProgress: onProgress,
		now:        time.Now,
	}, nil
}

// NewClientWithProvider creates a client around an already constructed provider.
func NewClientWithProvider(marketProvider provider.Provider, onProgress provider.OnDownloadProgress) *Client {
	return &Client{
		provider:   marketProvider,
		validate:   validator.New(),
		onProgress: onProgress,
		now:        time.Now,
	}
}

func newProvider(config ClientConfig) (provider.Provider, error) {
	switch config.ProviderType {
	case ProviderYahoo:
		if config.BaseURL != "" {
			return provider.NewYahooClientWithBaseURL(config.BaseURL), nil
		}

		return provider.NewYahooClient()
	case ProviderPolygon:
		return provider.NewPolygonClient(config.PolygonApiKey)
	case ProviderBinance:
		return provider.NewBinanceClientWithBaseURL(config.BaseURL), nil
	case ProviderAlpaca:
		return provider.NewAlpacaClient(config.AlpacaApiKey, config.AlpacaApiSecret, config.BaseURL)
	case ProviderCSV:
		return provider.NewCSVClient(config.DataPath)
	case ProviderParquet:
		return provider.NewParquetClient(config.DataPath)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider type: %s", config.ProviderType)
	}
}

// Provider returns the underlying provider.
func (c *Client) Provider() provider.Provider {
	return c.provider
}

// SetNow replaces the clock used to resolve ranges.
func (c *Client) SetNow(now func() time.Time) {
	c.now = now
}

// Request converts params into the provider request, resolving the time window.
func (c *Client) Request(params FetchParams) (provider.FetchRequest, error) {
	if err := c.validate.Struct(params); err != nil {
		return provider.FetchRequest{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid fetch parameters", err)
	}

	interval, err := ParseTimespan(string(params.Interval))
	if err != nil {
		return provider.FetchRequest{}, err
	}

	now := c.now()
	end := params.End.TakeOr(now)

	//nolint:exhaustruct // window fields are filled below
	req := provider.FetchRequest{
		Ticker:     params.Ticker,
		End:        end,
		Multiplier: interval.Multiplier(),
		Timespan:   interval.Timespan(),
		OnProgress: c.onProgress,
	}

	if params.Start.IsSome() {
		req.Start = params.Start.Unwrap()
		if !req.End.After(req.Start) {
			return provider.FetchRequest{}, errors.Newf(errors.ErrCodeInvalidParameter, "end %s must be after start %s",
				req.End.Format(time.RFC3339), req.Start.Format(time.RFC3339))
		}

		return req, nil
	}

	r := params.Range
	if r == "" {
		r = Range6mo
	}

	if _, err := ParseRange(string(r)); err != nil {
		return provider.FetchRequest{}, err
	}

	req.Start = r.Start(end)
	req.Range = string(r)

	return req, nil
}

// Fetch returns the quotes for params sorted by timestamp with duplicates removed.
// Any provider failure is reported as a fetch error and no quotes are returned.
func (c *Client) Fetch(ctx context.Context, params FetchParams) ([]types.Quote, error) {
	req, err := c.Request(params)
	if err != nil {
		return nil, err
	}

	quotes, err := c.provider.Fetch(ctx, req)
	if err != nil {
		if errors.KindOf(err) == errors.KindFetch {
			return nil, err
		}

		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "%s fetch failed for %s", c.provider.Name(), params.Ticker)
	}

	quotes = provider.SanitizeVolume(provider.SortAndDedupe(quotes))
	if len(quotes) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no quotes for %s (%s, %s)", params.Ticker, params.Interval, describeWindow(req))
	}

	return quotes, nil
}

// Download fetches quotes and writes them through marketWriter, returning the output path.
func (c *Client) Download(ctx context.Context, params FetchParams, marketWriter writer.MarketDataWriter) (path string, err error) {
	quotes, err := c.Fetch(ctx, params)
	if err != nil {
		return "", err
	}

	if err := marketWriter.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := marketWriter.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "error closing writer", cerr)
		}
	}()

	for _, q := range quotes {
		if err := marketWriter.Write(q); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write quote", err)
		}
	}

	outputPath, err := marketWriter.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}

// NewWriter creates a writer of writerType for params under dataPath, creating the directory
// if needed. Files are named TICKER_START_END_INTERVAL.<ext>.
func (c *Client) NewWriter(writerType writer.WriterType, dataPath string, params FetchParams) (writer.MarketDataWriter, error) {
	req, err := c.Request(params)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create %s", dataPath)
	}

	base := fmt.Sprintf("%s_%s_%s_%s",
		params.Ticker,
		req.Start.Format("2006-01-02"),
		req.End.Format("2006-01-02"),
		params.Interval)

	switch writerType {
	case writer.WriterDuckDB:
		return writer.NewDuckDBWriter(filepath.Join(dataPath, base+".parquet"), params.Ticker), nil
	case writer.WriterCSV:
		return writer.NewCSVWriter(filepath.Join(dataPath, base+".csv")), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported writer type: %s", writerType)
	}
}

func describeWindow(req provider.FetchRequest) string {
	if req.Range != "" {
		return "range " + req.Range
	}

	return fmt.Sprintf("%s to %s", req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"))
}
