package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestIndicatorTypeConstants() {
	suite.Equal(IndicatorType("sma"), IndicatorTypeSMA)
	suite.Equal(IndicatorType("ema"), IndicatorTypeEMA)
	suite.Equal(IndicatorType("bollinger_bands"), IndicatorTypeBollingerBands)
	suite.Equal(IndicatorType("rsi"), IndicatorTypeRSI)
	suite.Equal(IndicatorType("macd"), IndicatorTypeMACD)
}

func (suite *IndicatorTestSuite) TestLabel() {
	tests := []struct {
		name     string
		config   IndicatorConfig
		expected string
	}{
		{"sma", IndicatorConfig{Type: IndicatorTypeSMA, Period: 20}, "SMA(20)"},
		{"ema", IndicatorConfig{Type: IndicatorTypeEMA, Period: 12}, "EMA(12)"},
		{"ema sma seeded", IndicatorConfig{Type: IndicatorTypeEMA, Period: 12, Seed: SeedSMA}, "EMA(12,sma)"},
		{"rsi", IndicatorConfig{Type: IndicatorTypeRSI, Period: 14}, "RSI(14)"},
		{"bollinger", IndicatorConfig{Type: IndicatorTypeBollingerBands, Period: 20, Multiplier: 2}, "BB(20,2)"},
		{"bollinger fractional", IndicatorConfig{Type: IndicatorTypeBollingerBands, Period: 10, Multiplier: 1.5}, "BB(10,1.5)"},
		{"macd", IndicatorConfig{Type: IndicatorTypeMACD, FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}, "MACD(12,26,9)"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, tc.config.Label())
		})
	}
}
