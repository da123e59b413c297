// Package chart renders analysis results as PNG images.
package chart

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-indicators/internal/indicator"
	"github.com/rxtech-lab/argo-indicators/internal/logger"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400

	rsiOverbought = 70
	rsiOversold   = 30
)

var volatileColor = color.RGBA{R: 220, G: 38, B: 38, A: 255}

// PNGRenderer writes one chart per indicator series plus a price chart.
type PNGRenderer struct {
	outputDir string
	width     vg.Length
	height    vg.Length
	log       *logger.Logger
}

// NewPNGRenderer creates a renderer writing into outputDir. Non-positive sizes use the defaults,
// given in points.
func NewPNGRenderer(outputDir string, width, height int, log *logger.Logger) (*PNGRenderer, error) {
	if outputDir == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "chart output directory is required")
	}

	if width <= 0 {
		width = DefaultWidth
	}

	if height <= 0 {
		height = DefaultHeight
	}

	return &PNGRenderer{
		outputDir: outputDir,
		width:     vg.Length(width),
		height:    vg.Length(height),
		log:       log.Named("chart"),
	}, nil
}

// Render writes the price chart first, then one file per series in result order,
// and returns the written paths.
func (r *PNGRenderer) Render(ctx context.Context, result *types.AnalysisResult) ([]string, error) {
	if result == nil || len(result.Quotes) == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "nothing to render")
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeRenderFailed, err, "failed to create %s", r.outputDir)
	}

	paths := make([]string, 0, len(result.Series)+1)

	price, err := priceChart(result)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "failed to build price chart", err)
	}

	path, err := r.save(price, FileName(result.Symbol, "price"))
	if err != nil {
		return nil, err
	}

	paths = append(paths, path)

	for _, series := range result.Series {
		if err := ctx.Err(); err != nil {
			return paths, errors.Wrap(errors.ErrCodeRenderFailed, "render cancelled", err)
		}

		p, err := seriesChart(result.Symbol, series)
		if err != nil {
			return paths, errors.Wrapf(errors.ErrCodeRenderFailed, err, "failed to build %s chart", series.Label)
		}

		path, err := r.save(p, FileName(result.Symbol, series.Label))
		if err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func (r *PNGRenderer) save(p *plot.Plot, name string) (string, error) {
	path := filepath.Join(r.outputDir, name)

	if err := p.Save(r.width, r.height, path); err != nil {
		return "", errors.Wrapf(errors.ErrCodeRenderFailed, err, "failed to save %s", path)
	}

	r.log.Debug("Chart written", zap.String("path", path))

	return path, nil
}

// FileName returns "<symbol>_<label>.png" with characters unsafe in file names replaced.
func FileName(symbol, label string) string {
	clean := strings.NewReplacer("/", "_", "\\", "_", " ", "", "(", "_", ")", "", ",", "_", ".", "_")

	return fmt.Sprintf("%s_%s.png", clean.Replace(symbol), clean.Replace(label))
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	return p
}

// priceChart draws close, high and low with volatile quotes marked on the close line.
func priceChart(result *types.AnalysisResult) (*plot.Plot, error) {
	p := newPlot(fmt.Sprintf("%s %s", result.Symbol, result.Interval))
	p.Y.Label.Text = "Price"

	closes := make(plotter.XYs, len(result.Quotes))
	highs := make(plotter.XYs, len(result.Quotes))
	lows := make(plotter.XYs, len(result.Quotes))

	for i, q := range result.Quotes {
		x := float64(q.Timestamp)
		closes[i] = plotter.XY{X: x, Y: q.Close}
		highs[i] = plotter.XY{X: x, Y: q.High}
		lows[i] = plotter.XY{X: x, Y: q.Low}
	}

	volatile := volatilePoints(result)

	if err := plotutil.AddLines(p, "close", closes, "high", highs, "low", lows); err != nil {
		return nil, err
	}

	if len(volatile) > 0 {
		scatter, err := plotter.NewScatter(volatile)
		if err != nil {
			return nil, err
		}

		scatter.GlyphStyle.Color = volatileColor
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add("volatile", scatter)
	}

	return p, nil
}

// volatilePoints returns the (timestamp, close) of every quote flagged volatile.
func volatilePoints(result *types.AnalysisResult) plotter.XYs {
	flags := make(map[int64]bool, len(result.Volatility))
	for _, f := range result.Volatility {
		flags[f.Timestamp] = f.Volatile
	}

	points := make(plotter.XYs, 0)

	for _, q := range result.Quotes {
		if flags[q.Timestamp] {
			points = append(points, plotter.XY{X: float64(q.Timestamp), Y: q.Close})
		}
	}

	return points
}

// seriesChart draws one line per column of series.
func seriesChart(symbol string, series types.IndicatorSeries) (*plot.Plot, error) {
	p := newPlot(fmt.Sprintf("%s %s", symbol, series.Label))
	p.Y.Label.Text = series.Label

	for i, column := range series.Columns {
		values, _ := series.Column(column)

		xys := make(plotter.XYs, len(values))
		for j, v := range values {
			xys[j] = plotter.XY{X: float64(series.Points[j].Timestamp), Y: v}
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}

		line.Color = plotutil.Color(i)
		if column == indicator.ColumnUpper || column == indicator.ColumnLower {
			line.Dashes = plotutil.Dashes(1)
		}

		p.Add(line)
		p.Legend.Add(column, line)
	}

	if series.Type == types.IndicatorTypeRSI {
		p.Y.Min = 0
		p.Y.Max = 100
		addLevel(p, rsiOverbought)
		addLevel(p, rsiOversold)
	}

	if series.Type == types.IndicatorTypeMACD {
		addLevel(p, 0)
	}

	return p, nil
}

func addLevel(p *plot.Plot, level float64) {
	fn := plotter.NewFunction(func(float64) float64 { return level })
	fn.Color = color.Gray{Y: 128}
	fn.Dashes = plotutil.Dashes(2)
	p.Add(fn)
}
