package marketdata

import (
	"strings"
	"time"

	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// Range is a lookback window ending now, using the same spellings as the Yahoo chart API.
type Range string

const (
	Range1d  Range = "1d"
	Range5d  Range = "5d"
	Range1mo Range = "1mo"
	Range3mo Range = "3mo"
	Range6mo Range = "6mo"
	Range1y  Range = "1y"
	Range2y  Range = "2y"
	Range5y  Range = "5y"
	Range10y Range = "10y"
	RangeYtd Range = "ytd"
	RangeMax Range = "max"
)

var AllRanges = []Range{Range1d, Range5d, Range1mo, Range3mo, Range6mo, Range1y, Range2y, Range5y, Range10y, RangeYtd, RangeMax}

var rangeAliases = map[string]Range{
	"1 day": Range1d, "5 days": Range5d,
	"1 month": Range1mo, "3 months": Range3mo, "6 months": Range6mo,
	"1 year": Range1y, "2 years": Range2y, "5 years": Range5y, "10 years": Range10y,
	"year to date": RangeYtd, "all": RangeMax,
}

// ParseRange accepts canonical ranges ("6mo") and human spellings ("6 months").
func ParseRange(s string) (Range, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	for _, r := range AllRanges {
		if string(r) == normalized {
			return r, nil
		}
	}

	if r, ok := rangeAliases[normalized]; ok {
		return r, nil
	}

	return "", errors.Newf(errors.ErrCodeInvalidRange, "unsupported range %q", s)
}

// Start returns the beginning of the range that ends at now.
func (r Range) Start(now time.Time) time.Time {
	switch r {
	case Range1d:
		return now.AddDate(0, 0, -1)
	case Range5d:
		return now.AddDate(0, 0, -5)
	case Range1mo:
		return now.AddDate(0, -1, 0)
	case Range3mo:
		return now.AddDate(0, -3, 0)
	case Range6mo:
		return now.AddDate(0, -6, 0)
	case Range1y:
		return now.AddDate(-1, 0, 0)
	case Range2y:
		return now.AddDate(-2, 0, 0)
	case Range5y:
		return now.AddDate(-5, 0, 0)
	case Range10y:
		return now.AddDate(-10, 0, 0)
	case RangeYtd:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case RangeMax:
		return time.Unix(0, 0).In(now.Location())
	default:
		return now.AddDate(0, -6, 0)
	}
}

func (r Range) String() string { return string(r) }
