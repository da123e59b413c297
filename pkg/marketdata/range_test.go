package marketdata

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RangeTestSuite struct {
	suite.Suite
}

func TestRangeSuite(t *testing.T) {
	suite.Run(t, new(RangeTestSuite))
}

func (suite *RangeTestSuite) TestParseRange() {
	tests := []struct {
		input    string
		expected Range
	}{
		{"6mo", Range6mo},
		{"6MO", Range6mo},
		{"6 months", Range6mo},
		{"1y", Range1y},
		{"1 year", Range1y},
		{"ytd", RangeYtd},
		{"year to date", RangeYtd},
		{"max", RangeMax},
		{"all", RangeMax},
	}

	for _, tc := range tests {
		suite.Run(tc.input, func() {
			got, err := ParseRange(tc.input)
			suite.NoError(err)
			suite.Equal(tc.expected, got)
		})
	}

	_, err := ParseRange("forever")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidRange))
	suite.Equal(errors.KindFetch, errors.KindOf(err))
}

func (suite *RangeTestSuite) TestStart() {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		r        Range
		expected time.Time
	}{
		{Range1d, time.Date(2024, 7, 14, 12, 0, 0, 0, time.UTC)},
		{Range5d, time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)},
		{Range1mo, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)},
		{Range3mo, time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)},
		{Range6mo, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)},
		{Range1y, time.Date(2023, 7, 15, 12, 0, 0, 0, time.UTC)},
		{Range10y, time.Date(2014, 7, 15, 12, 0, 0, 0, time.UTC)},
		{RangeYtd, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{RangeMax, time.Unix(0, 0).UTC()},
	}

	for _, tc := range tests {
		suite.Run(string(tc.r), func() {
			suite.True(tc.expected.Equal(tc.r.Start(now)), "got %s", tc.r.Start(now))
		})
	}
}
