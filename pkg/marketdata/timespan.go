package marketdata

import (
	"strings"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

type Timespan string

const (
	TimespanOneMinute      Timespan = "1m"
	TimespanThreeMinutes   Timespan = "3m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanOneHour        Timespan = "1h"
	TimespanTwoHours       Timespan = "2h"
	TimespanFourHours      Timespan = "4h"
	TimespanSixHours       Timespan = "6h"
	TimespanEightHours     Timespan = "8h"
	TimespanTwelveHours    Timespan = "12h"
	TimespanOneDay         Timespan = "1d"
	TimespanThreeDays      Timespan = "3d"
	TimespanOneWeek        Timespan = "1w"
	TimespanOneMonth       Timespan = "1M"
)

// AllTimespans lists every supported interval in ascending length.
var AllTimespans = []Timespan{
	TimespanOneMinute, TimespanThreeMinutes, TimespanFiveMinutes, TimespanFifteenMinutes,
	TimespanThirtyMinutes, TimespanOneHour, TimespanTwoHours, TimespanFourHours,
	TimespanSixHours, TimespanEightHours, TimespanTwelveHours, TimespanOneDay,
	TimespanThreeDays, TimespanOneWeek, TimespanOneMonth,
}

// timespanAliases maps lower-cased human spellings onto intervals.
var timespanAliases = map[string]Timespan{
	"1 minute": TimespanOneMinute, "1minute": TimespanOneMinute, "1min": TimespanOneMinute,
	"3 minutes": TimespanThreeMinutes, "3min": TimespanThreeMinutes,
	"5 minutes": TimespanFiveMinutes, "5min": TimespanFiveMinutes,
	"15 minutes": TimespanFifteenMinutes, "15min": TimespanFifteenMinutes,
	"30 minutes": TimespanThirtyMinutes, "30min": TimespanThirtyMinutes,
	"1 hour": TimespanOneHour, "1hour": TimespanOneHour, "60m": TimespanOneHour, "hourly": TimespanOneHour,
	"2 hours": TimespanTwoHours, "4 hours": TimespanFourHours, "6 hours": TimespanSixHours,
	"8 hours": TimespanEightHours, "12 hours": TimespanTwelveHours,
	"1 day": TimespanOneDay, "1day": TimespanOneDay, "daily": TimespanOneDay,
	"3 days": TimespanThreeDays,
	"1 week": TimespanOneWeek, "1week": TimespanOneWeek, "1wk": TimespanOneWeek, "weekly": TimespanOneWeek,
	"1 month": TimespanOneMonth, "1month": TimespanOneMonth, "1mo": TimespanOneMonth, "monthly": TimespanOneMonth,
}

// ParseTimespan accepts canonical intervals ("1d", "1M") and human spellings ("1 day", "weekly").
// Canonical forms are case-sensitive because "1m" and "1M" differ.
func ParseTimespan(s string) (Timespan, error) {
	trimmed := strings.TrimSpace(s)
	for _, t := range AllTimespans {
		if string(t) == trimmed {
			return t, nil
		}
	}

	normalized := strings.Join(strings.Fields(strings.ToLower(trimmed)), " ")
	if t, ok := timespanAliases[normalized]; ok {
		return t, nil
	}

	return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval %q", s)
}

func (t Timespan) Multiplier() int {
	switch t {
	case TimespanOneMinute:
		return 1
	case TimespanThreeMinutes:
		return 3
	case TimespanFiveMinutes:
		return 5
	case TimespanFifteenMinutes:
		return 15
	case TimespanThirtyMinutes:
		return 30
	case TimespanOneHour:
		return 1
	case TimespanTwoHours:
		return 2
	case TimespanFourHours:
		return 4
	case TimespanSixHours:
		return 6
	case TimespanEightHours:
		return 8
	case TimespanTwelveHours:
		return 12
	case TimespanOneDay:
		return 1
	case TimespanThreeDays:
		return 3
	case TimespanOneWeek:
		return 1
	case TimespanOneMonth:
		return 1
	default:
		return 1
	}
}

// Timespan returns the polygon unit; Multiplier gives the count of units per bar.
func (t Timespan) Timespan() models.Timespan {
	switch t {
	case TimespanOneMinute, TimespanThreeMinutes, TimespanFiveMinutes, TimespanFifteenMinutes, TimespanThirtyMinutes:
		return models.Minute
	case TimespanOneHour, TimespanTwoHours, TimespanFourHours, TimespanSixHours, TimespanEightHours, TimespanTwelveHours:
		return models.Hour
	case TimespanOneDay, TimespanThreeDays:
		return models.Day
	case TimespanOneWeek:
		return models.Week
	case TimespanOneMonth:
		return models.Month
	default:
		return models.Day
	}
}

func (t Timespan) String() string { return string(t) }
