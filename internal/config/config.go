// Package config loads and validates the analysis configuration file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-indicators/internal/cache"
	"github.com/rxtech-lab/argo-indicators/internal/engine"
	"github.com/rxtech-lab/argo-indicators/internal/export"
	"github.com/rxtech-lab/argo-indicators/internal/indicator"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/internal/version"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata"
	"gopkg.in/yaml.v3"
)

// SchemaFileName is the schema file referenced from generated config files.
const SchemaFileName = "argo-indicators-config.json"

// ProviderConfig selects and authenticates the market data provider.
type ProviderConfig struct {
	Type            marketdata.ProviderType `yaml:"type" json:"type" jsonschema:"title=Provider,description=Market data provider,enum=yahoo,enum=polygon,enum=binance,enum=alpaca,enum=csv,enum=parquet,default=yahoo" validate:"required,oneof=yahoo polygon binance alpaca csv parquet"`
	PolygonApiKey   string                  `yaml:"polygon_api_key,omitempty" json:"polygon_api_key,omitempty" jsonschema:"title=Polygon API Key" validate:"required_if=Type polygon"`
	AlpacaApiKey    string                  `yaml:"alpaca_api_key,omitempty" json:"alpaca_api_key,omitempty" jsonschema:"title=Alpaca API Key" validate:"required_if=Type alpaca"`
	AlpacaApiSecret string                  `yaml:"alpaca_api_secret,omitempty" json:"alpaca_api_secret,omitempty" jsonschema:"title=Alpaca API Secret" validate:"required_if=Type alpaca"`
	DataPath        string                  `yaml:"data_path,omitempty" json:"data_path,omitempty" jsonschema:"title=Data Path,description=Quote file for the csv and parquet providers" validate:"required_if=Type csv,required_if=Type parquet"`
	BaseURL         string                  `yaml:"base_url,omitempty" json:"base_url,omitempty" jsonschema:"title=Base URL,description=Overrides the provider API host" validate:"omitempty,url"`
}

// ClientConfig converts the provider section into a market data client configuration.
func (p ProviderConfig) ClientConfig() marketdata.ClientConfig {
	return marketdata.ClientConfig{
		ProviderType:    p.Type,
		PolygonApiKey:   p.PolygonApiKey,
		AlpacaApiKey:    p.AlpacaApiKey,
		AlpacaApiSecret: p.AlpacaApiSecret,
		DataPath:        p.DataPath,
		BaseURL:         p.BaseURL,
	}
}

// FetchConfig is the default sampling interval and window.
// An explicit start takes precedence over range.
type FetchConfig struct {
	Interval string                     `yaml:"interval" json:"interval" jsonschema:"title=Interval,description=Bar interval such as 1d or 1h,default=1d" validate:"required"`
	Range    string                     `yaml:"range,omitempty" json:"range,omitempty" jsonschema:"title=Range,description=Lookback window such as 6mo or 1y,default=6mo"`
	Start    optional.Option[time.Time] `yaml:"start,omitempty" json:"start,omitempty" jsonschema:"title=Start,description=Optional start of the window" validate:"-"`
	End      optional.Option[time.Time] `yaml:"end,omitempty" json:"end,omitempty" jsonschema:"title=End,description=Optional end of the window" validate:"-"`
}

type fetchConfigYAML struct {
	Interval string     `yaml:"interval"`
	Range    string     `yaml:"range,omitempty"`
	Start    *time.Time `yaml:"start,omitempty"`
	End      *time.Time `yaml:"end,omitempty"`
}

// UnmarshalYAML implements custom unmarshaling for the optional window bounds.
func (f *FetchConfig) UnmarshalYAML(value *yaml.Node) error {
	raw := fetchConfigYAML{
		Interval: f.Interval,
		Range:    f.Range,
		Start:    nil,
		End:      nil,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	f.Interval = raw.Interval
	f.Range = raw.Range
	f.Start = optional.FromNillable(raw.Start)
	f.End = optional.FromNillable(raw.End)

	return nil
}

// MarshalYAML writes unset bounds as absent keys.
func (f FetchConfig) MarshalYAML() (any, error) {
	raw := fetchConfigYAML{
		Interval: f.Interval,
		Range:    f.Range,
		Start:    nil,
		End:      nil,
	}

	if f.Start.IsSome() {
		start := f.Start.Unwrap()
		raw.Start = &start
	}

	if f.End.IsSome() {
		end := f.End.Unwrap()
		raw.End = &end
	}

	return raw, nil
}

// OutputConfig controls what is written besides the printed summary.
type OutputConfig struct {
	Dir         string          `yaml:"dir" json:"dir" jsonschema:"title=Output Directory,default=./output" validate:"required"`
	Charts      bool            `yaml:"charts" json:"charts" jsonschema:"title=Charts,description=Write PNG charts,default=true"`
	ChartWidth  int             `yaml:"chart_width,omitempty" json:"chart_width,omitempty" jsonschema:"title=Chart Width,description=Chart width in points,minimum=0" validate:"omitempty,min=100"`
	ChartHeight int             `yaml:"chart_height,omitempty" json:"chart_height,omitempty" jsonschema:"title=Chart Height,description=Chart height in points,minimum=0" validate:"omitempty,min=100"`
	Summary     bool            `yaml:"summary" json:"summary" jsonschema:"title=Summary,description=Write summary.yaml next to the charts,default=true"`
	Export      []export.Format `yaml:"export,omitempty" json:"export,omitempty" jsonschema:"title=Export,description=Series export formats" validate:"omitempty,dive,oneof=csv parquet sqlite"`
	MetricsFile string          `yaml:"metrics_file,omitempty" json:"metrics_file,omitempty" jsonschema:"title=Metrics File,description=Prometheus textfile written after each run"`
}

// CacheConfig enables the Redis quote cache.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled,default=false"`
	RedisAddr     string        `yaml:"redis_addr,omitempty" json:"redis_addr,omitempty" jsonschema:"title=Redis Address,description=host:port of the Redis server" validate:"required_if=Enabled true"`
	RedisPassword string        `yaml:"redis_password,omitempty" json:"redis_password,omitempty" jsonschema:"title=Redis Password"`
	RedisDB       int           `yaml:"redis_db,omitempty" json:"redis_db,omitempty" jsonschema:"title=Redis DB,minimum=0" validate:"min=0"`
	TTL           time.Duration `yaml:"ttl,omitempty" json:"ttl,omitempty" jsonschema:"title=TTL,description=Entry lifetime such as 15m"`
}

// Config is the analysis configuration file.
type Config struct {
	Version     string                  `yaml:"version" json:"version" jsonschema:"title=Version,description=Config format version"`
	Provider    ProviderConfig          `yaml:"provider" json:"provider" jsonschema:"title=Provider"`
	Fetch       FetchConfig             `yaml:"fetch" json:"fetch" jsonschema:"title=Fetch"`
	Indicators  []types.IndicatorConfig `yaml:"indicators" json:"indicators" jsonschema:"title=Indicators,minItems=1" validate:"required,min=1,dive"`
	Output      OutputConfig            `yaml:"output" json:"output" jsonschema:"title=Output"`
	Cache       CacheConfig             `yaml:"cache" json:"cache" jsonschema:"title=Cache"`
	QuotePolicy engine.QuotePolicy      `yaml:"quote_policy" json:"quote_policy" jsonschema:"title=Quote Policy,description=What to do with quotes carrying non-finite values,enum=abort,enum=skip,default=abort" validate:"omitempty,oneof=abort skip"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Version: version.ConfigVersion,
		Provider: ProviderConfig{
			Type:            marketdata.ProviderYahoo,
			PolygonApiKey:   "",
			AlpacaApiKey:    "",
			AlpacaApiSecret: "",
			DataPath:        "",
			BaseURL:         "",
		},
		Fetch: FetchConfig{
			Interval: string(marketdata.TimespanOneDay),
			Range:    string(marketdata.Range6mo),
			Start:    optional.None[time.Time](),
			End:      optional.None[time.Time](),
		},
		Indicators: DefaultIndicators(),
		Output: OutputConfig{
			Dir:         "./output",
			Charts:      true,
			ChartWidth:  0,
			ChartHeight: 0,
			Summary:     true,
			Export:      nil,
			MetricsFile: "",
		},
		Cache: CacheConfig{
			Enabled:       false,
			RedisAddr:     "",
			RedisPassword: "",
			RedisDB:       0,
			TTL:           cache.DefaultTTL,
		},
		QuotePolicy: engine.QuotePolicyAbort,
	}
}

// DefaultIndicators is SMA(20), EMA(12), EMA(26), BB(20,2), RSI(14) and MACD(12,26,9).
func DefaultIndicators() []types.IndicatorConfig {
	return []types.IndicatorConfig{
		{Type: types.IndicatorTypeSMA, Period: 20},
		{Type: types.IndicatorTypeEMA, Period: 12},
		{Type: types.IndicatorTypeEMA, Period: 26},
		{Type: types.IndicatorTypeBollingerBands, Period: 20, Multiplier: 2},
		{Type: types.IndicatorTypeRSI, Period: 14},
		{Type: types.IndicatorTypeMACD, FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9},
	}
}

// Parse decodes YAML content and validates it.
func Parse(content []byte) (Config, error) {
	config := Default()

	if err := yaml.Unmarshal(content, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := version.CheckVersionCompatibility(version.GetVersion(), config.Version); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// LoadFromFile reads and validates the config at path.
func LoadFromFile(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(content)
}

// SaveToFile writes the config as YAML with a schema hint for editors.
func (c Config) SaveToFile(path string) error {
	content, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal config", err)
	}

	content = append([]byte("# yaml-language-server: $schema="+SchemaFileName+"\n"), content...)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to create %s", dir)
		}
	}

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to write config %s", path)
	}

	return nil
}

// Validate checks struct tags, then the values that depend on each other:
// interval and range spellings, window bounds and per-indicator parameters.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := marketdata.ParseTimespan(c.Fetch.Interval); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid fetch.interval", err)
	}

	if c.Fetch.Range != "" {
		if _, err := marketdata.ParseRange(c.Fetch.Range); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid fetch.range", err)
		}
	}

	if c.Fetch.Start.IsSome() && c.Fetch.End.IsSome() && !c.Fetch.End.Unwrap().After(c.Fetch.Start.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "fetch.end must be after fetch.start")
	}

	registry := indicator.NewIndicatorRegistry()
	for i, cfg := range c.Indicators {
		if _, err := registry.Build(cfg); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid indicators[%d]", i)
		}
	}

	return nil
}

// RedisConfig returns the connection settings of the cache section.
func (c CacheConfig) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// FetchParams builds the market data request for ticker from the fetch section.
func (c Config) FetchParams(ticker string) (marketdata.FetchParams, error) {
	interval, err := marketdata.ParseTimespan(c.Fetch.Interval)
	if err != nil {
		return marketdata.FetchParams{}, err
	}

	var r marketdata.Range
	if c.Fetch.Range != "" {
		r, err = marketdata.ParseRange(c.Fetch.Range)
		if err != nil {
			return marketdata.FetchParams{}, err
		}
	}

	return marketdata.FetchParams{
		Ticker:   ticker,
		Interval: interval,
		Range:    r,
		Start:    c.Fetch.Start,
		End:      c.Fetch.End,
	}, nil
}

// GenerateSchema generates a JSON schema for Config.
func GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
				}
			}

			if t == reflect.TypeOf(export.Format("")) {
				enum := make([]any, 0, len(export.AllFormats))
				for _, f := range export.AllFormats {
					enum = append(enum, string(f))
				}

				return &jsonschema.Schema{
					Type: "string",
					Enum: enum,
				}
			}

			return nil
		},
	}

	//nolint:exhaustruct // empty struct is intentional for schema generation
	schema := reflector.Reflect(&Config{})
	schema.Title = "argo-indicators-config"
	schema.Description = "Configuration schema for argo-indicators"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates the JSON schema as an indented string.
func GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal schema", err)
	}

	return string(schemaBytes), nil
}
