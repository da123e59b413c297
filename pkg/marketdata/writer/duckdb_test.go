package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) SetupSuite() {
	tempDir, err := os.MkdirTemp("", "duckdb-writer-test")
	suite.Require().NoError(err)
	suite.tempDir = tempDir
}

func (suite *DuckDBWriterTestSuite) TearDownSuite() {
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func testQuotes() []types.Quote {
	return []types.Quote{
		{Timestamp: 1704153600, Open: 151, High: 156, Low: 149, Close: 153, Volume: 1100000},
		{Timestamp: 1704067200, Open: 150, High: 155, Low: 148, Close: 152, Volume: 1000000},
		{Timestamp: 1704240000, Open: 153, High: 158, Low: 150, Close: 157, Volume: 900000},
	}
}

func (suite *DuckDBWriterTestSuite) TestNewDuckDBWriter() {
	outputPath := filepath.Join(suite.tempDir, "test.parquet")
	w := NewDuckDBWriter(outputPath, "AAPL")

	duckWriter, ok := w.(*DuckDBWriter)
	suite.Require().True(ok)
	suite.Equal(outputPath, duckWriter.GetOutputPath())
	suite.Equal("AAPL", duckWriter.symbol)
	suite.Nil(duckWriter.db)
	suite.Nil(duckWriter.tx)
	suite.Nil(duckWriter.stmt)
}

func (suite *DuckDBWriterTestSuite) TestInitialize() {
	w := NewDuckDBWriter(filepath.Join(suite.tempDir, "init.parquet"), "AAPL")
	suite.Require().NoError(w.Initialize())

	duckWriter := w.(*DuckDBWriter)
	suite.NotNil(duckWriter.db)
	suite.NotNil(duckWriter.tx)
	suite.NotNil(duckWriter.stmt)

	suite.NoError(w.Close())
}

func (suite *DuckDBWriterTestSuite) TestWithoutInitialize() {
	w := NewDuckDBWriter(filepath.Join(suite.tempDir, "no_init.parquet"), "AAPL")

	err := w.Write(testQuotes()[0])
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))

	_, err = w.Finalize()
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))

	suite.NoError(w.Close())
}

func (suite *DuckDBWriterTestSuite) TestFullWorkflow() {
	outputPath := filepath.Join(suite.tempDir, "full.parquet")
	w := NewDuckDBWriter(outputPath, "AAPL")
	suite.Require().NoError(w.Initialize())

	for _, q := range testQuotes() {
		suite.Require().NoError(w.Write(q))
	}

	suite.Equal(3, w.(*DuckDBWriter).Rows())

	path, err := w.Finalize()
	suite.Require().NoError(err)
	suite.Equal(outputPath, path)
	suite.NoError(w.Close())
	suite.FileExists(outputPath)

	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT symbol, epoch(time)::BIGINT, close FROM read_parquet('%s')", outputPath))
	suite.Require().NoError(err)
	defer rows.Close()

	var (
		timestamps []int64
		closes     []float64
	)

	for rows.Next() {
		var (
			symbol string
			ts     int64
			closeP float64
		)

		suite.Require().NoError(rows.Scan(&symbol, &ts, &closeP))
		suite.Equal("AAPL", symbol)

		timestamps = append(timestamps, ts)
		closes = append(closes, closeP)
	}

	suite.NoError(rows.Err())
	suite.Equal([]int64{1704067200, 1704153600, 1704240000}, timestamps)
	suite.Equal([]float64{152, 153, 157}, closes)
}

func (suite *DuckDBWriterTestSuite) TestDoubleFinalize() {
	w := NewDuckDBWriter(filepath.Join(suite.tempDir, "double.parquet"), "AAPL")
	suite.Require().NoError(w.Initialize())
	suite.Require().NoError(w.Write(testQuotes()[0]))

	_, err := w.Finalize()
	suite.NoError(err)

	_, err = w.Finalize()
	suite.Error(err)

	suite.NoError(w.Close())
	suite.NoError(w.Close())
}

func (suite *DuckDBWriterTestSuite) TestFinalizeExportError() {
	w := NewDuckDBWriter(filepath.Join(suite.tempDir, "missing", "dir", "out.parquet"), "AAPL")
	suite.Require().NoError(w.Initialize())
	suite.Require().NoError(w.Write(testQuotes()[0]))

	_, err := w.Finalize()
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))
	suite.NoError(w.Close())
}
