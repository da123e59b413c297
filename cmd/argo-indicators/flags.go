package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-indicators/internal/config"
	"github.com/rxtech-lab/argo-indicators/internal/engine"
	"github.com/rxtech-lab/argo-indicators/internal/export"
	"github.com/rxtech-lab/argo-indicators/internal/logger"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"
)

const defaultLogFile = "argo-indicators.log"

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// sourceFlags select the ticker, window and provider. Shared by analyze and download.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ticker",
			Aliases: []string{"t", "name", "n"},
			Usage:   "Ticker symbol, e.g. AAPL or BTCUSDT",
		},
		&cli.StringFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Usage:   "Bar interval such as `1d`, 1h or \"1 day\" (default from config: 1d)",
		},
		&cli.StringFlag{
			Name:    "range",
			Aliases: []string{"r"},
			Usage:   "Lookback such as `6mo`, 1y or \"6 months\" (default from config: 6mo)",
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "Window start in `YYYY-MM-DD` or RFC3339 format; overrides --range",
			Config: cli.TimestampConfig{Layouts: dateLayouts},
		},
		&cli.TimestampFlag{
			Name:   "end",
			Usage:  "Window end in `YYYY-MM-DD` or RFC3339 format. Defaults to now.",
			Config: cli.TimestampConfig{Layouts: dateLayouts},
		},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   fmt.Sprintf("Data provider (%s)", strings.Join(marketdata.GetSupportedProviders(), ", ")),
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Quote file for the csv and parquet providers",
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Override the provider API host",
			Sources: cli.EnvVars("ARGO_PROVIDER_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "polygon-api-key",
			Usage:   "Polygon.io API key",
			Sources: cli.EnvVars("POLYGON_API_KEY"),
		},
		&cli.StringFlag{
			Name:    "alpaca-api-key",
			Usage:   "Alpaca API key ID",
			Sources: cli.EnvVars("APCA_API_KEY_ID"),
		},
		&cli.StringFlag{
			Name:    "alpaca-api-secret",
			Usage:   "Alpaca API secret key",
			Sources: cli.EnvVars("APCA_API_SECRET_KEY"),
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "File receiving detailed JSON logs",
			Value: defaultLogFile,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
	}
}

func analyzeFlags() []cli.Flag {
	return append(sourceFlags(),
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file; flags override its values",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Directory for charts, exports and the summary (default from config: ./output)",
		},
		&cli.BoolFlag{
			Name:  "skip-malformed",
			Usage: "Drop quotes with non-finite values instead of aborting",
		},
		&cli.BoolFlag{
			Name:  "no-charts",
			Usage: "Do not write PNG charts",
		},
		&cli.StringSliceFlag{
			Name:    "export",
			Aliases: []string{"e"},
			Usage:   "Also export series as csv, parquet or sqlite (repeatable)",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus metrics in text format to this file",
		},
		&cli.StringFlag{
			Name:    "redis",
			Usage:   "Cache fetched quotes in Redis at `host:port`",
			Sources: cli.EnvVars("ARGO_REDIS_ADDR"),
		},
	)
}

// loadConfig reads --config when given, otherwise the defaults, then applies flag overrides
// and validates the result.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	if err := applySourceFlags(cmd, &cfg); err != nil {
		return config.Config{}, err
	}

	if v := cmd.String("output"); v != "" {
		cfg.Output.Dir = v
	}

	if cmd.Bool("skip-malformed") {
		cfg.QuotePolicy = engine.QuotePolicySkip
	}

	if cmd.Bool("no-charts") {
		cfg.Output.Charts = false
	}

	for _, raw := range cmd.StringSlice("export") {
		f, err := export.ParseFormat(raw)
		if err != nil {
			return config.Config{}, err
		}

		cfg.Output.Export = append(cfg.Output.Export, f)
	}

	if v := cmd.String("metrics-file"); v != "" {
		cfg.Output.MetricsFile = v
	}

	if v := cmd.String("redis"); v != "" {
		cfg.Cache.Enabled = true
		cfg.Cache.RedisAddr = v
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// applySourceFlags copies the provider and window flags that were set onto cfg.
func applySourceFlags(cmd *cli.Command, cfg *config.Config) error {
	if v := cmd.String("provider"); v != "" {
		providerType, err := marketdata.ParseProviderType(v)
		if err != nil {
			return err
		}

		cfg.Provider.Type = providerType
	}

	if v := cmd.String("file"); v != "" {
		cfg.Provider.DataPath = v
	}

	if v := cmd.String("base-url"); v != "" {
		cfg.Provider.BaseURL = v
	}

	if v := cmd.String("polygon-api-key"); v != "" {
		cfg.Provider.PolygonApiKey = v
	}

	if v := cmd.String("alpaca-api-key"); v != "" {
		cfg.Provider.AlpacaApiKey = v
	}

	if v := cmd.String("alpaca-api-secret"); v != "" {
		cfg.Provider.AlpacaApiSecret = v
	}

	if v := cmd.String("interval"); v != "" {
		cfg.Fetch.Interval = v
	}

	if v := cmd.String("range"); v != "" {
		cfg.Fetch.Range = v
	}

	if cmd.IsSet("start") {
		cfg.Fetch.Start = optional.Some(cmd.Timestamp("start").UTC())
	}

	if cmd.IsSet("end") {
		cfg.Fetch.End = optional.Some(cmd.Timestamp("end").UTC())
	}

	return nil
}

func requireTicker(cmd *cli.Command) (string, error) {
	ticker := strings.TrimSpace(cmd.String("ticker"))
	if ticker == "" {
		return "", errors.New(errors.ErrCodeMissingParameter, "ticker is required (--ticker or --name)")
	}

	return strings.ToUpper(ticker), nil
}

// newLogger opens the detailed log file named by --log-file.
func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	level, err := zapcore.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid --log-level", err)
	}

	log, err := logger.NewFileLogger(cmd.String("log-file"), level)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to open log file %s", cmd.String("log-file"))
	}

	return log, nil
}
