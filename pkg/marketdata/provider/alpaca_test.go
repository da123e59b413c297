package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v2/marketdata"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	argoErrors "github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type mockAlpacaAPIClient struct {
	bars       []marketdata.Bar
	err        error
	calls      int
	lastSymbol string
	lastParams marketdata.GetBarsParams
}

func (m *mockAlpacaAPIClient) GetBars(symbol string, params marketdata.GetBarsParams) ([]marketdata.Bar, error) {
	m.calls++
	m.lastSymbol = symbol
	m.lastParams = params

	return m.bars, m.err
}

type AlpacaClientTestSuite struct {
	suite.Suite
}

func TestAlpacaClientSuite(t *testing.T) {
	suite.Run(t, new(AlpacaClientTestSuite))
}

func (suite *AlpacaClientTestSuite) request() FetchRequest {
	return FetchRequest{
		Ticker:     "AAPL",
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Multiplier: 1,
		Timespan:   models.Day,
		Range:      "",
		OnProgress: nil,
	}
}

func (suite *AlpacaClientTestSuite) TestNewAlpacaClient() {
	_, err := NewAlpacaClient("", "secret", "")
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMissingParameter))

	_, err = NewAlpacaClient("key", "", "")
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMissingParameter))

	client, err := NewAlpacaClient("key", "secret", "")
	suite.NoError(err)
	suite.Equal(ProviderAlpaca, client.Name())
}

func (suite *AlpacaClientTestSuite) TestFetch() {
	day := time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)
	mockAPI := &mockAlpacaAPIClient{bars: []marketdata.Bar{
		{Timestamp: day, Open: 185, High: 188, Low: 183, Close: 185.6, Volume: 82000000},
	}}

	quotes, err := NewAlpacaClientWithAPI(mockAPI).Fetch(context.Background(), suite.request())
	suite.Require().NoError(err)
	suite.Equal([]types.Quote{
		{Timestamp: day.Unix(), Open: 185, High: 188, Low: 183, Close: 185.6, Volume: 82000000},
	}, quotes)

	suite.Equal("AAPL", mockAPI.lastSymbol)
	suite.Equal(marketdata.NewTimeFrame(1, marketdata.Day), mockAPI.lastParams.TimeFrame)
	suite.Equal(suite.request().Start, mockAPI.lastParams.Start)
	suite.Equal(suite.request().End, mockAPI.lastParams.End)
}

func (suite *AlpacaClientTestSuite) TestFetchErrors() {
	mockAPI := &mockAlpacaAPIClient{err: errors.New("forbidden")}

	_, err := NewAlpacaClientWithAPI(mockAPI).Fetch(context.Background(), suite.request())
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMarketDataFetchFailed))

	req := suite.request()
	req.Timespan = models.Week

	_, err = NewAlpacaClientWithAPI(mockAPI).Fetch(context.Background(), req)
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeInvalidTimespan))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := mockAPI.calls

	_, err = NewAlpacaClientWithAPI(mockAPI).Fetch(ctx, suite.request())
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMarketDataFetchFailed))
	suite.Equal(calls, mockAPI.calls)
}

func (suite *AlpacaClientTestSuite) TestConvertTimespanToAlpacaTimeFrame() {
	tf, err := convertTimespanToAlpacaTimeFrame(models.Minute, 15)
	suite.NoError(err)
	suite.Equal(marketdata.NewTimeFrame(15, marketdata.Min), tf)

	tf, err = convertTimespanToAlpacaTimeFrame(models.Hour, 4)
	suite.NoError(err)
	suite.Equal(marketdata.NewTimeFrame(4, marketdata.Hour), tf)

	_, err = convertTimespanToAlpacaTimeFrame(models.Month, 1)
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeInvalidTimespan))
}
