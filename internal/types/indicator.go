package types

import (
	"fmt"
	"strings"
)

type IndicatorType string

const (
	IndicatorTypeSMA            IndicatorType = "sma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMACD           IndicatorType = "macd"
)

// SeedMode selects how an exponential smoother picks its initial state.
type SeedMode string

const (
	// SeedFirstPrice seeds the state with the first input.
	SeedFirstPrice SeedMode = "first_price"
	// SeedSMA averages the first period inputs before switching to the recurrence.
	SeedSMA SeedMode = "sma"
)

// IndicatorConfig describes one indicator instance to build.
// Which fields apply depends on Type.
type IndicatorConfig struct {
	Type         IndicatorType `json:"type" yaml:"type" jsonschema:"title=Type,enum=sma,enum=ema,enum=bollinger_bands,enum=rsi,enum=macd,required" validate:"required,oneof=sma ema bollinger_bands rsi macd"`
	Period       int           `json:"period,omitempty" yaml:"period,omitempty" jsonschema:"title=Period,description=Window or smoothing period (sma ema bollinger_bands rsi),minimum=1" validate:"omitempty,min=1"`
	Multiplier   float64       `json:"multiplier,omitempty" yaml:"multiplier,omitempty" jsonschema:"title=Multiplier,description=Standard deviation multiplier (bollinger_bands)" validate:"omitempty,gt=0"`
	FastPeriod   int           `json:"fast_period,omitempty" yaml:"fast_period,omitempty" jsonschema:"title=Fast Period,description=Fast EMA period (macd),minimum=1" validate:"omitempty,min=1"`
	SlowPeriod   int           `json:"slow_period,omitempty" yaml:"slow_period,omitempty" jsonschema:"title=Slow Period,description=Slow EMA period (macd),minimum=1" validate:"omitempty,min=1"`
	SignalPeriod int           `json:"signal_period,omitempty" yaml:"signal_period,omitempty" jsonschema:"title=Signal Period,description=Signal EMA period (macd),minimum=1" validate:"omitempty,min=1"`
	Seed         SeedMode      `json:"seed,omitempty" yaml:"seed,omitempty" jsonschema:"title=Seed,description=EMA seeding (ema macd),enum=first_price,enum=sma" validate:"omitempty,oneof=first_price sma"`
}

// Label returns a short human readable name such as "EMA(12)" or "MACD(12,26,9)".
func (c IndicatorConfig) Label() string {
	name := strings.ToUpper(string(c.Type))

	switch c.Type {
	case IndicatorTypeBollingerBands:
		return fmt.Sprintf("BB(%d,%g)", c.Period, c.Multiplier)
	case IndicatorTypeMACD:
		return fmt.Sprintf("MACD(%d,%d,%d)", c.FastPeriod, c.SlowPeriod, c.SignalPeriod)
	case IndicatorTypeEMA:
		if c.Seed == SeedSMA {
			return fmt.Sprintf("EMA(%d,sma)", c.Period)
		}

		return fmt.Sprintf("EMA(%d)", c.Period)
	case IndicatorTypeSMA, IndicatorTypeRSI:
		return fmt.Sprintf("%s(%d)", name, c.Period)
	default:
		return fmt.Sprintf("%s(%d)", name, c.Period)
	}
}

// BollingerValue is the per-quote output of Bollinger Bands.
type BollingerValue struct {
	Average float64 `json:"average" yaml:"average"`
	Upper   float64 `json:"upper" yaml:"upper"`
	Lower   float64 `json:"lower" yaml:"lower"`
}

// MACDValue is the per-quote output of MACD.
type MACDValue struct {
	MACD      float64 `json:"macd" yaml:"macd"`
	Signal    float64 `json:"signal" yaml:"signal"`
	Histogram float64 `json:"histogram" yaml:"histogram"`
}
