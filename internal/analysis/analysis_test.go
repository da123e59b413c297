package analysis

import (
	"testing"

	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type AnalysisTestSuite struct {
	suite.Suite
}

func TestAnalysisSuite(t *testing.T) {
	suite.Run(t, new(AnalysisTestSuite))
}

func closeQuote(ts int64, c float64) types.Quote {
	return types.Quote{Timestamp: ts, Open: c, High: c, Low: c, Close: c, Volume: 0}
}

func (suite *AnalysisTestSuite) TestExtremesFirstOccurrenceWins() {
	quotes := []types.Quote{
		closeQuote(1, 10.0),
		closeQuote(2, 30.0),
		closeQuote(3, 30.0),
		closeQuote(4, 5.0),
	}

	result, err := Extremes(quotes)
	suite.Require().NoError(err)
	suite.Equal(types.ExtremalResult{
		MaxTimestamp: 2,
		MaxClose:     30.0,
		MinTimestamp: 4,
		MinClose:     5.0,
	}, result)
}

func (suite *AnalysisTestSuite) TestExtremes() {
	tests := []struct {
		name     string
		quotes   []types.Quote
		expected types.ExtremalResult
	}{
		{
			name:     "single quote",
			quotes:   []types.Quote{closeQuote(100, 42)},
			expected: types.ExtremalResult{MaxTimestamp: 100, MaxClose: 42, MinTimestamp: 100, MinClose: 42},
		},
		{
			name:     "min tie keeps earliest",
			quotes:   []types.Quote{closeQuote(1, 8), closeQuote(2, 3), closeQuote(3, 9), closeQuote(4, 3)},
			expected: types.ExtremalResult{MaxTimestamp: 3, MaxClose: 9, MinTimestamp: 2, MinClose: 3},
		},
		{
			name:     "constant series",
			quotes:   []types.Quote{closeQuote(1, 7), closeQuote(2, 7), closeQuote(3, 7)},
			expected: types.ExtremalResult{MaxTimestamp: 1, MaxClose: 7, MinTimestamp: 1, MinClose: 7},
		},
		{
			name:     "descending",
			quotes:   []types.Quote{closeQuote(10, 5), closeQuote(20, 4), closeQuote(30, 3)},
			expected: types.ExtremalResult{MaxTimestamp: 10, MaxClose: 5, MinTimestamp: 30, MinClose: 3},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			result, err := Extremes(tc.quotes)
			suite.Require().NoError(err)
			suite.Equal(tc.expected, result)
		})
	}
}

func (suite *AnalysisTestSuite) TestExtremesEmpty() {
	_, err := Extremes(nil)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyInput))
	suite.Equal(errors.KindEmptyInput, errors.KindOf(err))
}

func (suite *AnalysisTestSuite) TestIsVolatile() {
	tests := []struct {
		name     string
		quote    types.Quote
		expected bool
	}{
		{name: "wide range", quote: types.Quote{High: 102, Low: 98, Close: 100}, expected: true},
		{name: "narrow range", quote: types.Quote{High: 100.5, Low: 99.5, Close: 100}, expected: false},
		{name: "exactly at threshold", quote: types.Quote{High: 101, Low: 99, Close: 100}, expected: false},
		{name: "flat quote", quote: types.Quote{High: 50, Low: 50, Close: 50}, expected: false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, IsVolatile(tc.quote))
		})
	}
}

func (suite *AnalysisTestSuite) TestVolatilityPreservesOrder() {
	quotes := []types.Quote{
		{Timestamp: 1, High: 102, Low: 98, Close: 100},
		{Timestamp: 2, High: 100.5, Low: 99.5, Close: 100},
		{Timestamp: 3, High: 110, Low: 90, Close: 100},
	}

	flags := Volatility(quotes)
	suite.Equal([]types.VolatilityFlag{
		{Timestamp: 1, Volatile: true},
		{Timestamp: 2, Volatile: false},
		{Timestamp: 3, Volatile: true},
	}, flags)

	suite.Empty(Volatility(nil))
}
