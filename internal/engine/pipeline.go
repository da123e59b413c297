package engine

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-indicators/internal/logger"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata"
	"go.uber.org/zap"
)

// QuoteSource supplies the quote batch for a request. *marketdata.Client implements it.
type QuoteSource interface {
	Fetch(ctx context.Context, params marketdata.FetchParams) ([]types.Quote, error)
}

// Renderer turns a result into presentation artifacts such as charts.
type Renderer interface {
	// Render writes its artifacts and returns their paths.
	Render(ctx context.Context, result *types.AnalysisResult) ([]string, error)
}

// Exporter writes a result in a machine readable format.
type Exporter interface {
	// Export writes its files and returns their paths.
	Export(ctx context.Context, result *types.AnalysisResult) ([]string, error)
}

// Lifecycle callback types for pipeline stages.
// Callbacks returning an error abort the run.

// OnFetchStartCallback is called before quotes are requested.
type OnFetchStartCallback func(ticker string) error

// OnFetchEndCallback is called after the fetch, with the error if it failed.
type OnFetchEndCallback func(quotes int, err error)

// OnIndicatorComputedCallback is called once per computed series.
type OnIndicatorComputedCallback func(series types.IndicatorSeries) error

// OnArtifactWrittenCallback is called for every file a renderer or exporter produced.
type OnArtifactWrittenCallback func(path string)

// LifecycleCallbacks holds all lifecycle callback functions for the pipeline.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnFetchStart        *OnFetchStartCallback
	OnFetchEnd          *OnFetchEndCallback
	OnIndicatorComputed *OnIndicatorComputedCallback
	OnArtifactWritten   *OnArtifactWrittenCallback
}

// Request is one analysis run.
type Request struct {
	Params     marketdata.FetchParams
	Indicators []types.IndicatorConfig
}

// Output is what a successful run produced.
type Output struct {
	Result    *types.AnalysisResult
	Artifacts []string
}

// Pipeline runs fetch, compute, render and export in that order.
// A failed fetch stops the run before anything is computed.
type Pipeline struct {
	source    QuoteSource
	engine    *Engine
	renderers []Renderer
	exporters []Exporter
	log       *logger.Logger
}

func NewPipeline(source QuoteSource, engine *Engine, log *logger.Logger) *Pipeline {
	return &Pipeline{
		source:    source,
		engine:    engine,
		renderers: nil,
		exporters: nil,
		log:       log.Named("pipeline"),
	}
}

// AddRenderer appends a renderer; renderers run in the order they were added.
func (p *Pipeline) AddRenderer(r Renderer) {
	p.renderers = append(p.renderers, r)
}

// AddExporter appends an exporter; exporters run after all renderers.
func (p *Pipeline) AddExporter(e Exporter) {
	p.exporters = append(p.exporters, e)
}

// Run executes the pipeline. The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context, req Request, callbacks LifecycleCallbacks) (*Output, error) {
	ticker := req.Params.Ticker

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled before fetch: %w", err)
	}

	if callbacks.OnFetchStart != nil {
		if err := (*callbacks.OnFetchStart)(ticker); err != nil {
			return nil, fmt.Errorf("fetch start callback: %w", err)
		}
	}

	p.log.Info("Fetching quotes",
		zap.String("ticker", ticker),
		zap.String("interval", string(req.Params.Interval)),
		zap.String("range", string(req.Params.Range)),
	)

	quotes, err := p.source.Fetch(ctx, req.Params)

	if callbacks.OnFetchEnd != nil {
		(*callbacks.OnFetchEnd)(len(quotes), err)
	}

	if err != nil {
		p.log.Error("Fetch failed", zap.String("ticker", ticker), zap.Error(err))

		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled before compute: %w", err)
	}

	result, err := p.engine.Compute(ticker, string(req.Params.Interval), quotes, req.Indicators)
	if err != nil {
		p.log.Error("Compute failed", zap.String("ticker", ticker), zap.Error(err))

		return nil, err
	}

	if callbacks.OnIndicatorComputed != nil {
		for _, s := range result.Series {
			if err := (*callbacks.OnIndicatorComputed)(s); err != nil {
				return nil, fmt.Errorf("indicator callback for %s: %w", s.Label, err)
			}
		}
	}

	p.log.Info("Computed analysis",
		zap.String("ticker", ticker),
		zap.Int("quotes", len(result.Quotes)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("series", len(result.Series)),
	)

	output := &Output{
		Result:    result,
		Artifacts: nil,
	}

	for _, r := range p.renderers {
		if err := ctx.Err(); err != nil {
			return output, fmt.Errorf("pipeline cancelled before render: %w", err)
		}

		paths, err := r.Render(ctx, result)
		if err != nil {
			return output, wrapOutput(errors.ErrCodeRenderFailed, "render failed", err)
		}

		output.Artifacts = append(output.Artifacts, p.written(paths, callbacks)...)
	}

	for _, e := range p.exporters {
		if err := ctx.Err(); err != nil {
			return output, fmt.Errorf("pipeline cancelled before export: %w", err)
		}

		paths, err := e.Export(ctx, result)
		if err != nil {
			return output, wrapOutput(errors.ErrCodeExportFailed, "export failed", err)
		}

		output.Artifacts = append(output.Artifacts, p.written(paths, callbacks)...)
	}

	return output, nil
}

func (p *Pipeline) written(paths []string, callbacks LifecycleCallbacks) []string {
	for _, path := range paths {
		p.log.Debug("Artifact written", zap.String("path", path))

		if callbacks.OnArtifactWritten != nil {
			(*callbacks.OnArtifactWritten)(path)
		}
	}

	return paths
}

// wrapOutput keeps errors that already carry an output code.
func wrapOutput(code errors.ErrorCode, message string, err error) error {
	if errors.KindOf(err) == errors.KindOutput {
		return err
	}

	return errors.Wrap(code, message, err)
}
