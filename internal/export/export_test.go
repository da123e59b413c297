package export

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-indicators/internal/logger"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ExportTestSuite struct {
	suite.Suite
	dir    string
	result *types.AnalysisResult
}

func TestExportSuite(t *testing.T) {
	suite.Run(t, new(ExportTestSuite))
}

func (suite *ExportTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.result = &types.AnalysisResult{
		Symbol:   "AAPL",
		Interval: "1d",
		Quotes:   nil,
		Series: []types.IndicatorSeries{
			{
				Type:    types.IndicatorTypeSMA,
				Label:   "SMA(2)",
				Columns: []string{"value"},
				Points: []types.SeriesPoint{
					{Timestamp: 1704153600, Values: []float64{10}},
					{Timestamp: 1704240000, Values: []float64{11}},
				},
			},
			{
				Type:    types.IndicatorTypeMACD,
				Label:   "MACD(2,4,2)",
				Columns: []string{"macd", "signal", "histogram"},
				Points: []types.SeriesPoint{
					{Timestamp: 1704153600, Values: []float64{0, 0, 0}},
					{Timestamp: 1704240000, Values: []float64{0.5, 0.25, 0.25}},
				},
			},
		},
		Extremal:   types.ExtremalResult{},
		Volatility: nil,
		Skipped:    nil,
	}
}

func (suite *ExportTestSuite) TestParseFormat() {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"csv", FormatCSV, false},
		{" Parquet ", FormatParquet, false},
		{"SQLITE", FormatSQLite, false},
		{"xlsx", "", true},
	}

	for _, tc := range tests {
		suite.Run(tc.input, func() {
			got, err := ParseFormat(tc.input)
			if tc.wantErr {
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

				return
			}

			suite.NoError(err)
			suite.Equal(tc.expected, got)
		})
	}
}

func (suite *ExportTestSuite) TestRows() {
	rows := Rows(suite.result)
	suite.Len(rows, 2+2*3)

	suite.Equal(Row{Timestamp: 1704153600, Symbol: "AAPL", Interval: "1d", Indicator: "SMA(2)", Column: "value", Value: 10}, rows[0])
	suite.Equal(Row{Timestamp: 1704240000, Symbol: "AAPL", Interval: "1d", Indicator: "MACD(2,4,2)", Column: "histogram", Value: 0.25}, rows[7])
}

func (suite *ExportTestSuite) TestFileName() {
	result := &types.AnalysisResult{Symbol: "BTC/USDT", Interval: "1h"} //nolint:exhaustruct
	suite.Equal("BTC_USDT_1h_indicators.csv", FileName(result, FormatCSV))
	suite.Equal("BTC_USDT_1h_indicators.db", FileName(result, FormatSQLite))
}

func (suite *ExportTestSuite) TestNewSeriesExporter() {
	_, err := NewSeriesExporter("", []Format{FormatCSV}, logger.NewNopLogger())
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = NewSeriesExporter(suite.dir, []Format{"xlsx"}, logger.NewNopLogger())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	exporter, err := NewSeriesExporter(suite.dir, []Format{FormatCSV, FormatCSV, FormatSQLite}, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Equal([]Format{FormatCSV, FormatSQLite}, exporter.Formats())
}

func (suite *ExportTestSuite) TestExportCSV() {
	exporter, err := NewSeriesExporter(filepath.Join(suite.dir, "nested"), []Format{FormatCSV}, logger.NewNopLogger())
	suite.Require().NoError(err)

	paths, err := exporter.Export(context.Background(), suite.result)
	suite.Require().NoError(err)
	suite.Require().Len(paths, 1)

	file, err := os.Open(paths[0])
	suite.Require().NoError(err)
	defer file.Close()

	var rows []Row
	suite.Require().NoError(gocsv.UnmarshalFile(file, &rows))
	suite.Equal(Rows(suite.result), rows)
}

func (suite *ExportTestSuite) TestExportParquet() {
	exporter, err := NewSeriesExporter(suite.dir, []Format{FormatParquet}, logger.NewNopLogger())
	suite.Require().NoError(err)

	paths, err := exporter.Export(context.Background(), suite.result)
	suite.Require().NoError(err)
	suite.Require().Len(paths, 1)

	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	var sum float64
	err = db.QueryRow("SELECT COUNT(*), SUM(value) FROM read_parquet('" + paths[0] + "')").Scan(&count, &sum)
	suite.Require().NoError(err)
	suite.Equal(8, count)
	suite.InDelta(21+0.5+0.25+0.25, sum, 1e-9)

	var label string
	var ts int64
	err = db.QueryRow(`SELECT indicator, epoch(time)::BIGINT FROM read_parquet('` + paths[0] + `') WHERE "column" = 'signal' ORDER BY time DESC LIMIT 1`).Scan(&label, &ts)
	suite.Require().NoError(err)
	suite.Equal("MACD(2,4,2)", label)
	suite.Equal(int64(1704240000), ts)
}

func (suite *ExportTestSuite) TestExportSQLiteUpserts() {
	exporter, err := NewSeriesExporter(suite.dir, []Format{FormatSQLite}, logger.NewNopLogger())
	suite.Require().NoError(err)

	_, err = exporter.Export(context.Background(), suite.result)
	suite.Require().NoError(err)

	suite.result.Series[0].Points[1].Values[0] = 42

	paths, err := exporter.Export(context.Background(), suite.result)
	suite.Require().NoError(err)

	db, err := sql.Open("sqlite3", paths[0])
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	suite.Require().NoError(db.QueryRow("SELECT COUNT(*) FROM indicator_values").Scan(&count))
	suite.Equal(8, count)

	var value float64
	err = db.QueryRow(`SELECT value FROM indicator_values WHERE indicator = ? AND time = ?`, "SMA(2)", 1704240000).Scan(&value)
	suite.Require().NoError(err)
	suite.Equal(42.0, value)
}

func (suite *ExportTestSuite) TestExportAllFormats() {
	exporter, err := NewSeriesExporter(suite.dir, AllFormats, logger.NewNopLogger())
	suite.Require().NoError(err)

	paths, err := exporter.Export(context.Background(), suite.result)
	suite.Require().NoError(err)
	suite.Equal([]string{
		filepath.Join(suite.dir, "AAPL_1d_indicators.csv"),
		filepath.Join(suite.dir, "AAPL_1d_indicators.parquet"),
		filepath.Join(suite.dir, "AAPL_1d_indicators.db"),
	}, paths)

	for _, p := range paths {
		suite.FileExists(p)
	}
}

func (suite *ExportTestSuite) TestExportErrors() {
	exporter, err := NewSeriesExporter(suite.dir, []Format{FormatCSV}, logger.NewNopLogger())
	suite.Require().NoError(err)

	_, err = exporter.Export(context.Background(), nil)
	suite.True(errors.HasCode(err, errors.ErrCodeExportFailed))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := exporter.Export(ctx, suite.result)
	suite.Empty(paths)
	suite.True(errors.HasCode(err, errors.ErrCodeExportFailed))
	suite.Equal(errors.KindOutput, errors.KindOf(err))
}
