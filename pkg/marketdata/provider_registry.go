package marketdata

import (
	"sort"

	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name" yaml:"name"`
	DisplayName  string `json:"displayName" yaml:"display_name"`
	Description  string `json:"description" yaml:"description"`
	RequiresAuth bool   `json:"requiresAuth" yaml:"requires_auth"`
	RequiresFile bool   `json:"requiresFile" yaml:"requires_file"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderYahoo: {
		Name:         string(ProviderYahoo),
		DisplayName:  "Yahoo Finance",
		Description:  "Public chart API for equities, ETFs and indices; no key required",
		RequiresAuth: false,
		RequiresFile: false,
	},
	ProviderPolygon: {
		Name:         string(ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market data provider with real-time and historical OHLCV data",
		RequiresAuth: true,
		RequiresFile: false,
	},
	ProviderBinance: {
		Name:         string(ProviderBinance),
		DisplayName:  "Binance",
		Description:  "Cryptocurrency exchange with extensive market data for crypto trading pairs",
		RequiresAuth: false,
		RequiresFile: false,
	},
	ProviderAlpaca: {
		Name:         string(ProviderAlpaca),
		DisplayName:  "Alpaca",
		Description:  "US equities bars from the Alpaca data API",
		RequiresAuth: true,
		RequiresFile: false,
	},
	ProviderCSV: {
		Name:         string(ProviderCSV),
		DisplayName:  "CSV file",
		Description:  "Local CSV file with timestamp,open,high,low,close,volume columns",
		RequiresAuth: false,
		RequiresFile: true,
	},
	ProviderParquet: {
		Name:         string(ProviderParquet),
		DisplayName:  "Parquet file",
		Description:  "Local parquet file written by the download command",
		RequiresAuth: false,
		RequiresFile: true,
	},
}

// GetSupportedProviders returns the names of all supported providers, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// ParseProviderType validates a provider name.
func ParseProviderType(providerName string) (ProviderType, error) {
	if _, err := GetProviderInfo(providerName); err != nil {
		return "", err
	}

	return ProviderType(providerName), nil
}
