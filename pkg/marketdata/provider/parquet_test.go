package provider

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	argoErrors "github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
)

type ParquetClientTestSuite struct {
	suite.Suite
	path   string
	quotes []types.Quote
}

func TestParquetClientSuite(t *testing.T) {
	suite.Run(t, new(ParquetClientTestSuite))
}

func (suite *ParquetClientTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "AAPL.parquet")
	suite.quotes = []types.Quote{
		{Timestamp: 1704067200, Open: 150, High: 155, Low: 148, Close: 152, Volume: 1000000},
		{Timestamp: 1704153600, Open: 151, High: 156, Low: 149, Close: 153, Volume: 1100000},
		{Timestamp: 1704240000, Open: 153, High: 158, Low: 150, Close: 157, Volume: 900000},
	}

	w := writer.NewDuckDBWriter(suite.path, "AAPL")
	suite.Require().NoError(w.Initialize())

	for _, q := range suite.quotes {
		suite.Require().NoError(w.Write(q))
	}

	_, err := w.Finalize()
	suite.Require().NoError(err)
	suite.Require().NoError(w.Close())
}

func (suite *ParquetClientTestSuite) TestNewParquetClient() {
	client, err := NewParquetClient("")
	suite.Nil(client)
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMissingParameter))

	client, err = NewParquetClient(suite.path)
	suite.NoError(err)
	suite.Equal(ProviderParquet, client.Name())
}

func (suite *ParquetClientTestSuite) TestFetchRoundTrip() {
	client, err := NewParquetClient(suite.path)
	suite.Require().NoError(err)

	//nolint:exhaustruct // open window
	quotes, err := client.Fetch(context.Background(), FetchRequest{Ticker: "AAPL", Multiplier: 1, Timespan: models.Day})
	suite.Require().NoError(err)
	suite.Equal(suite.quotes, quotes)
}

func (suite *ParquetClientTestSuite) TestFetchFilters() {
	client, err := NewParquetClient(suite.path)
	suite.Require().NoError(err)

	//nolint:exhaustruct // no range
	quotes, err := client.Fetch(context.Background(), FetchRequest{
		Ticker:     "AAPL",
		Start:      time.Unix(1704153600, 0),
		End:        time.Unix(1704240000, 0),
		Multiplier: 1,
		Timespan:   models.Day,
	})
	suite.Require().NoError(err)
	suite.Equal(suite.quotes[1:], quotes)

	//nolint:exhaustruct // open window
	other, err := client.Fetch(context.Background(), FetchRequest{Ticker: "MSFT", Multiplier: 1})
	suite.NoError(err)
	suite.Empty(other)
}

func (suite *ParquetClientTestSuite) TestFetchMissingFile() {
	client, err := NewParquetClient(filepath.Join(suite.T().TempDir(), "missing.parquet"))
	suite.Require().NoError(err)

	//nolint:exhaustruct // open window
	_, err = client.Fetch(context.Background(), FetchRequest{Ticker: "AAPL", Multiplier: 1})
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMarketDataFetchFailed))
}

func (suite *ParquetClientTestSuite) TestBuildParquetQuery() {
	//nolint:exhaustruct // no range
	query, args, err := buildParquetQuery("read_parquet('x.parquet')", FetchRequest{
		Ticker: "AAPL",
		Start:  time.Unix(100, 0),
		End:    time.Unix(200, 0),
	})
	suite.Require().NoError(err)
	suite.Equal("SELECT time, open, high, low, close, volume FROM read_parquet('x.parquet') "+
		"WHERE symbol = $1 AND time >= $2 AND time <= $3 ORDER BY time ASC", query)
	suite.Equal([]any{"AAPL", time.Unix(100, 0).UTC(), time.Unix(200, 0).UTC()}, args)
}
