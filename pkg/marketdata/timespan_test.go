package marketdata

import (
	"testing"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TimespanTestSuite struct {
	suite.Suite
}

func TestTimespanSuite(t *testing.T) {
	suite.Run(t, new(TimespanTestSuite))
}

func (suite *TimespanTestSuite) TestMultiplierAndUnit() {
	tests := []struct {
		timespan   Timespan
		multiplier int
		unit       models.Timespan
	}{
		{TimespanOneMinute, 1, models.Minute},
		{TimespanThreeMinutes, 3, models.Minute},
		{TimespanFiveMinutes, 5, models.Minute},
		{TimespanFifteenMinutes, 15, models.Minute},
		{TimespanThirtyMinutes, 30, models.Minute},
		{TimespanOneHour, 1, models.Hour},
		{TimespanTwoHours, 2, models.Hour},
		{TimespanFourHours, 4, models.Hour},
		{TimespanSixHours, 6, models.Hour},
		{TimespanEightHours, 8, models.Hour},
		{TimespanTwelveHours, 12, models.Hour},
		{TimespanOneDay, 1, models.Day},
		{TimespanThreeDays, 3, models.Day},
		{TimespanOneWeek, 1, models.Week},
		{TimespanOneMonth, 1, models.Month},
	}

	for _, tc := range tests {
		suite.Run(string(tc.timespan), func() {
			suite.Equal(tc.multiplier, tc.timespan.Multiplier())
			suite.Equal(tc.unit, tc.timespan.Timespan())
			suite.Equal(string(tc.timespan), tc.timespan.String())
		})
	}

	suite.Len(AllTimespans, len(tests))
}

func (suite *TimespanTestSuite) TestParseTimespan() {
	tests := []struct {
		input    string
		expected Timespan
	}{
		{"1d", TimespanOneDay},
		{"1 day", TimespanOneDay},
		{"1day", TimespanOneDay},
		{"1 Day", TimespanOneDay},
		{"daily", TimespanOneDay},
		{"  1h ", TimespanOneHour},
		{"1m", TimespanOneMinute},
		{"1M", TimespanOneMonth},
		{"1mo", TimespanOneMonth},
		{"weekly", TimespanOneWeek},
		{"1wk", TimespanOneWeek},
		{"15 minutes", TimespanFifteenMinutes},
	}

	for _, tc := range tests {
		suite.Run(tc.input, func() {
			got, err := ParseTimespan(tc.input)
			suite.NoError(err)
			suite.Equal(tc.expected, got)
		})
	}
}

func (suite *TimespanTestSuite) TestParseTimespanInvalid() {
	for _, input := range []string{"", "7d", "fortnightly", "1s"} {
		suite.Run(input, func() {
			_, err := ParseTimespan(input)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimespan))
		})
	}
}
