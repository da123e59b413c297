package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	argoErrors "github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/stretchr/testify/suite"
)

const sampleCSV = `timestamp,open,high,low,close,volume
1704067200,150,155,148,152,1000000
1704153600,151,156,149,153,1100000
1704240000,153,158,150,157,900000
`

type CSVClientTestSuite struct {
	suite.Suite
	path string
}

func TestCSVClientSuite(t *testing.T) {
	suite.Run(t, new(CSVClientTestSuite))
}

func (suite *CSVClientTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "quotes.csv")
	suite.Require().NoError(os.WriteFile(suite.path, []byte(sampleCSV), 0o600))
}

func (suite *CSVClientTestSuite) TestNewCSVClient() {
	client, err := NewCSVClient("")
	suite.Nil(client)
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMissingParameter))

	client, err = NewCSVClient(suite.path)
	suite.NoError(err)
	suite.Equal(ProviderCSV, client.Name())
}

func (suite *CSVClientTestSuite) TestFetch() {
	client, err := NewCSVClient(suite.path)
	suite.Require().NoError(err)

	//nolint:exhaustruct // open window
	quotes, err := client.Fetch(context.Background(), FetchRequest{Ticker: "AAPL", Multiplier: 1, Timespan: models.Day})
	suite.Require().NoError(err)
	suite.Len(quotes, 3)
	suite.Equal(152.0, quotes[0].Close)
	suite.Equal(900000.0, quotes[2].Volume)
}

func (suite *CSVClientTestSuite) TestFetchWindow() {
	client, err := NewCSVClient(suite.path)
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
	suite.Len(quotes, 2)
	suite.Equal(int64(1704153600), quotes[0].Timestamp)
}

func (suite *CSVClientTestSuite) TestFetchErrors() {
	missing, err := NewCSVClient(filepath.Join(suite.T().TempDir(), "missing.csv"))
	suite.Require().NoError(err)

	//nolint:exhaustruct // open window
	_, err = missing.Fetch(context.Background(), FetchRequest{Ticker: "AAPL", Multiplier: 1})
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMarketDataFetchFailed))

	badPath := filepath.Join(suite.T().TempDir(), "bad.csv")
	suite.Require().NoError(os.WriteFile(badPath, []byte("timestamp,open,high,low,close,volume\nabc,1,1,1,1,1\n"), 0o600))

	bad, err := NewCSVClient(badPath)
	suite.Require().NoError(err)

	//nolint:exhaustruct // open window
	_, err = bad.Fetch(context.Background(), FetchRequest{Ticker: "AAPL", Multiplier: 1})
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMarketDataParseFailed))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := NewCSVClient(suite.path)
	suite.Require().NoError(err)

	//nolint:exhaustruct // open window
	_, err = client.Fetch(ctx, FetchRequest{Ticker: "AAPL", Multiplier: 1})
	suite.Equal(argoErrors.KindFetch, argoErrors.KindOf(err))
}
