package provider

import (
	"context"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// CSVClient reads quotes for a single instrument from a local CSV file with a
// header of timestamp,open,high,low,close,volume. The ticker is only used in messages.
type CSVClient struct {
	path string
}

func NewCSVClient(path string) (Provider, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "csv path is required")
	}

	return &CSVClient{path: path}, nil
}

func (c *CSVClient) Name() ProviderType { return ProviderCSV }

func (c *CSVClient) Fetch(ctx context.Context, req FetchRequest) ([]types.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "csv fetch cancelled", err)
	}

	file, err := os.Open(c.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to open %s", c.path)
	}
	defer file.Close()

	var rows []types.Quote
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse %s", c.path)
	}

	quotes := make([]types.Quote, 0, len(rows))
	for _, q := range rows {
		if inWindow(q.Timestamp, req.Start, req.End) {
			quotes = append(quotes, q)
		}
	}

	reportProgress(req, 1, 1, "Loaded "+req.Ticker+" from "+c.path)

	return quotes, nil
}
