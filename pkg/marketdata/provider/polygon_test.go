package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	argoErrors "github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator   PolygonAggsIterator
	lastParams *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.lastParams = params

	return m.iterator
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++

		return true
	}

	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}

	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

type PolygonClientTestSuite struct {
	suite.Suite
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) request() FetchRequest {
	return FetchRequest{
		Ticker:     "SPY",
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Multiplier: 1,
		Timespan:   models.Minute,
		Range:      "",
		OnProgress: nil,
	}
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient() {
	client, err := NewPolygonClient("test-api-key")
	suite.NoError(err)
	suite.Require().NotNil(client)
	suite.Equal(ProviderPolygon, client.Name())

	polygonClient, ok := client.(*PolygonClient)
	suite.True(ok)
	suite.NotNil(polygonClient.apiClient)
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_EmptyApiKey() {
	client, err := NewPolygonClient("")
	suite.Error(err)
	suite.Nil(client)
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMissingParameter))
}

func (suite *PolygonClientTestSuite) TestFetch() {
	mockIter := &mockPolygonIterator{
		aggs: []models.Agg{
			{
				Timestamp: models.Millis(time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)),
				Open:      100.0,
				High:      101.0,
				Low:       99.0,
				Close:     100.5,
				Volume:    1000000,
			},
			{
				Timestamp: models.Millis(time.Date(2024, 1, 1, 9, 31, 0, 0, time.UTC)),
				Open:      100.5,
				High:      102.0,
				Low:       100.0,
				Close:     101.5,
				Volume:    1500000,
			},
		},
	}
	mockAPI := &mockPolygonAPIClient{iterator: mockIter}

	var progressCalls int

	req := suite.request()
	req.OnProgress = func(current, total float64, message string) {
		progressCalls++
		suite.LessOrEqual(current, total)
	}

	quotes, err := NewPolygonClientWithAPI(mockAPI).Fetch(context.Background(), req)
	suite.Require().NoError(err)
	suite.Equal([]types.Quote{
		{Timestamp: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC).Unix(), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000000},
		{Timestamp: time.Date(2024, 1, 1, 9, 31, 0, 0, time.UTC).Unix(), Open: 100.5, High: 102, Low: 100, Close: 101.5, Volume: 1500000},
	}, quotes)
	suite.Positive(progressCalls)

	suite.Require().NotNil(mockAPI.lastParams)
	suite.Equal("SPY", mockAPI.lastParams.Ticker)
	suite.Equal(1, mockAPI.lastParams.Multiplier)
	suite.Equal(models.Minute, mockAPI.lastParams.Timespan)
}

func (suite *PolygonClientTestSuite) TestFetchEmpty() {
	mockAPI := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: []models.Agg{}}}

	quotes, err := NewPolygonClientWithAPI(mockAPI).Fetch(context.Background(), suite.request())
	suite.NoError(err)
	suite.Empty(quotes)
}

func (suite *PolygonClientTestSuite) TestFetchIteratorError() {
	mockAPI := &mockPolygonAPIClient{iterator: &mockPolygonIterator{
		aggs: []models.Agg{},
		err:  errors.New("API rate limit exceeded"),
	}}

	quotes, err := NewPolygonClientWithAPI(mockAPI).Fetch(context.Background(), suite.request())
	suite.Error(err)
	suite.Nil(quotes)
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMarketDataFetchFailed))
	suite.Contains(err.Error(), "API rate limit exceeded")
}

func (suite *PolygonClientTestSuite) TestFetchCancelled() {
	mockAPI := &mockPolygonAPIClient{iterator: &mockPolygonIterator{
		aggs: []models.Agg{{Timestamp: models.Millis(time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)), Close: 1}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPolygonClientWithAPI(mockAPI).Fetch(ctx, suite.request())
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMarketDataFetchFailed))
}

func (suite *PolygonClientTestSuite) TestFetchInvalidRequest() {
	req := suite.request()
	req.Ticker = ""

	_, err := NewPolygonClientWithAPI(&mockPolygonAPIClient{}).Fetch(context.Background(), req)
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMissingParameter))

	req = suite.request()
	req.End = req.Start.Add(-time.Hour)

	_, err = NewPolygonClientWithAPI(&mockPolygonAPIClient{}).Fetch(context.Background(), req)
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeInvalidParameter))
}
