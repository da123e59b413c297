// Package export writes computed indicator series in machine readable formats.
//
// Every format stores the same long layout: one row per (timestamp, indicator, column),
// so multi-column indicators such as MACD need no format specific schema.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-indicators/internal/logger"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"go.uber.org/zap"
)

// Format is a supported export format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatSQLite  Format = "sqlite"
)

var AllFormats = []Format{FormatCSV, FormatParquet, FormatSQLite}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range AllFormats {
		if f == normalized {
			return f, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported export format %q", s)
}

// Extension returns the file extension written for f.
func (f Format) Extension() string {
	if f == FormatSQLite {
		return "db"
	}

	return string(f)
}

// Row is one value of one indicator column at one quote.
type Row struct {
	Timestamp int64   `csv:"timestamp"`
	Symbol    string  `csv:"symbol"`
	Interval  string  `csv:"interval"`
	Indicator string  `csv:"indicator"`
	Column    string  `csv:"column"`
	Value     float64 `csv:"value"`
}

// Rows flattens every series of result into the long layout, series by series in
// result order and points in time order.
func Rows(result *types.AnalysisResult) []Row {
	count := 0
	for _, s := range result.Series {
		count += len(s.Points) * len(s.Columns)
	}

	rows := make([]Row, 0, count)

	for _, s := range result.Series {
		for _, p := range s.Points {
			for i, column := range s.Columns {
				rows = append(rows, Row{
					Timestamp: p.Timestamp,
					Symbol:    result.Symbol,
					Interval:  result.Interval,
					Indicator: s.Label,
					Column:    column,
					Value:     p.Values[i],
				})
			}
		}
	}

	return rows
}

// writeFunc writes rows to path.
type writeFunc func(ctx context.Context, path string, rows []Row) error

// SeriesExporter writes the series of a result once per configured format.
type SeriesExporter struct {
	outputDir string
	formats   []Format
	writers   map[Format]writeFunc
	log       *logger.Logger
}

// NewSeriesExporter creates an exporter writing into outputDir. Duplicate formats are written once.
func NewSeriesExporter(outputDir string, formats []Format, log *logger.Logger) (*SeriesExporter, error) {
	if outputDir == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "export output directory is required")
	}

	unique := make([]Format, 0, len(formats))
	seen := make(map[Format]bool, len(formats))

	for _, f := range formats {
		if _, err := ParseFormat(string(f)); err != nil {
			return nil, err
		}

		if !seen[f] {
			seen[f] = true
			unique = append(unique, f)
		}
	}

	return &SeriesExporter{
		outputDir: outputDir,
		formats:   unique,
		writers: map[Format]writeFunc{
			FormatCSV:     writeCSV,
			FormatParquet: writeParquet,
			FormatSQLite:  writeSQLite,
		},
		log: log.Named("export"),
	}, nil
}

// Formats returns the formats this exporter writes.
func (e *SeriesExporter) Formats() []Format {
	return e.formats
}

// FileName returns the base name written for result in format f.
func FileName(result *types.AnalysisResult, f Format) string {
	return fmt.Sprintf("%s_%s_indicators.%s", sanitize(result.Symbol), sanitize(result.Interval), f.Extension())
}

// Export writes one file per format and returns the written paths. On failure the
// paths written so far are returned with an ErrCodeExportFailed error.
func (e *SeriesExporter) Export(ctx context.Context, result *types.AnalysisResult) ([]string, error) {
	if result == nil {
		return nil, errors.New(errors.ErrCodeExportFailed, "nothing to export")
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create %s", e.outputDir)
	}

	rows := Rows(result)
	paths := make([]string, 0, len(e.formats))

	for _, f := range e.formats {
		if err := ctx.Err(); err != nil {
			return paths, errors.Wrap(errors.ErrCodeExportFailed, "export cancelled", err)
		}

		path := filepath.Join(e.outputDir, FileName(result, f))
		if err := e.writers[f](ctx, path, rows); err != nil {
			return paths, errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to export %s", path)
		}

		e.log.Debug("Exported series",
			zap.String("format", string(f)),
			zap.String("path", path),
			zap.Int("rows", len(rows)),
		)

		paths = append(paths, path)
	}

	return paths, nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ', '(', ')', ',':
			return '_'
		default:
			return r
		}
	}, s)
}
