// Package app assembles the analysis pipeline from a configuration.
package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-indicators/internal/cache"
	"github.com/rxtech-lab/argo-indicators/internal/chart"
	"github.com/rxtech-lab/argo-indicators/internal/config"
	"github.com/rxtech-lab/argo-indicators/internal/engine"
	"github.com/rxtech-lab/argo-indicators/internal/export"
	"github.com/rxtech-lab/argo-indicators/internal/logger"
	"github.com/rxtech-lab/argo-indicators/internal/metrics"
	"github.com/rxtech-lab/argo-indicators/internal/report"
	"github.com/rxtech-lab/argo-indicators/internal/runid"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// AnalyzeOptions is one analysis run.
type AnalyzeOptions struct {
	Config config.Config
	Ticker string
	// OnProgress receives provider download progress. Optional.
	OnProgress provider.OnDownloadProgress
	// Callbacks are invoked in addition to logging and metrics. Optional.
	Callbacks engine.LifecycleCallbacks
	// Source replaces the configured provider and cache. Optional.
	Source engine.QuoteSource
	Log    *logger.Logger
}

// AnalyzeResult is what a run produced. Output is nil when the fetch or compute failed.
type AnalyzeResult struct {
	RunID   string
	Output  *engine.Output
	Summary report.Summary
}

// Analyze runs fetch, compute, render and export for one ticker and writes the
// summary file. Metrics are recorded for failed runs too.
func Analyze(ctx context.Context, opts AnalyzeOptions) (*AnalyzeResult, error) {
	cfg := opts.Config
	id := runid.New()
	log := opts.Log.Named("app")
	log = &logger.Logger{Logger: log.With(zap.String("run_id", id))}

	m := metrics.New()
	result := &AnalyzeResult{
		RunID:   id,
		Output:  nil,
		Summary: report.Summary{}, //nolint:exhaustruct
	}

	err := analyze(ctx, opts, m, log, result)

	m.RecordRun(err)

	if cfg.Output.MetricsFile != "" {
		if writeErr := m.WriteTextfile(cfg.Output.MetricsFile); writeErr != nil {
			log.Warn("Failed to write metrics", zap.Error(writeErr))
		}
	}

	if err != nil {
		log.Error("Analysis failed", zap.String("ticker", opts.Ticker), zap.Error(err))

		return result, err
	}

	log.Info("Analysis finished",
		zap.String("ticker", opts.Ticker),
		zap.Int("artifacts", len(result.Summary.Artifacts)),
	)

	return result, nil
}

func analyze(ctx context.Context, opts AnalyzeOptions, m *metrics.Metrics, log *logger.Logger, result *AnalyzeResult) error {
	cfg := opts.Config

	params, err := cfg.FetchParams(opts.Ticker)
	if err != nil {
		return err
	}

	source, closeSource, err := newSource(ctx, opts, m, log)
	if err != nil {
		return err
	}
	defer closeSource()

	pipeline := engine.NewPipeline(source, engine.NewEngine(nil, cfg.QuotePolicy, log), log)

	if cfg.Output.Charts {
		renderer, err := chart.NewPNGRenderer(cfg.Output.Dir, cfg.Output.ChartWidth, cfg.Output.ChartHeight, log)
		if err != nil {
			return err
		}

		pipeline.AddRenderer(renderer)
	}

	if len(cfg.Output.Export) > 0 {
		exporter, err := export.NewSeriesExporter(cfg.Output.Dir, cfg.Output.Export, log)
		if err != nil {
			return err
		}

		pipeline.AddExporter(exporter)
	}

	output, err := pipeline.Run(ctx, engine.Request{
		Params:     params,
		Indicators: cfg.Indicators,
	}, m.Instrument(opts.Callbacks))
	result.Output = output

	if err != nil {
		return err
	}

	summary, err := report.NewSummary(result.RunID, output.Result, report.DefaultPlaces)
	if err != nil {
		return err
	}

	summary.Artifacts = output.Artifacts

	if cfg.Output.Summary {
		path := filepath.Join(cfg.Output.Dir, SummaryFileName(output.Result.Symbol))
		summary.Artifacts = append(summary.Artifacts, path)

		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create %s", cfg.Output.Dir)
		}

		if err := report.WriteSummary(path, summary); err != nil {
			return err
		}
	}

	result.Summary = summary

	return nil
}

// SummaryFileName is the summary file written for symbol.
func SummaryFileName(symbol string) string {
	return strings.TrimSuffix(chart.FileName(symbol, "summary"), ".png") + ".yaml"
}

// newSource returns the configured quote source, behind the Redis cache when enabled.
func newSource(ctx context.Context, opts AnalyzeOptions, m *metrics.Metrics, log *logger.Logger) (engine.QuoteSource, func(), error) {
	if opts.Source != nil {
		return opts.Source, func() {}, nil
	}

	cfg := opts.Config

	clientConfig := cfg.Provider.ClientConfig()

	client, err := marketdata.NewClient(clientConfig, opts.OnProgress)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Cache.Enabled {
		return client, func() {}, nil
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Cache.RedisConfig())
	if err != nil {
		return nil, nil, err
	}

	closeRedis := func() {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close redis client", zap.Error(err))
		}
	}

	return cache.NewQuoteCache(client, clientConfig.SourceID(), redisClient, cfg.Cache.TTL, m, log), closeRedis, nil
}
