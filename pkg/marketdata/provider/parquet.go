package provider

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// ParquetClient reads quotes from a parquet file produced by the download command
// (columns id, time, symbol, open, high, low, close, volume) through an in-memory DuckDB.
type ParquetClient struct {
	path string
}

func NewParquetClient(path string) (Provider, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "parquet path is required")
	}

	return &ParquetClient{path: path}, nil
}

func (c *ParquetClient) Name() ProviderType { return ProviderParquet }

func (c *ParquetClient) Fetch(ctx context.Context, req FetchRequest) ([]types.Quote, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	// read_parquet is a table function, so the path cannot be a bound parameter
	source := fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(c.path, "'", "''"))

	query, args, err := buildParquetQuery(source, req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to build SQL query", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to query %s", c.path)
	}
	defer rows.Close()

	quotes := make([]types.Quote, 0)

	for rows.Next() {
		var (
			ts time.Time
			q  types.Quote
		)

		if err := rows.Scan(&ts, &q.Open, &q.High, &q.Low, &q.Close, &q.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to scan parquet row", err)
		}

		q.Timestamp = ts.Unix()
		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to read parquet rows", err)
	}

	reportProgress(req, 1, 1, fmt.Sprintf("Loaded %d quotes for %s from %s", len(quotes), req.Ticker, c.path))

	return quotes, nil
}

func buildParquetQuery(source string, req FetchRequest) (string, []any, error) {
	sq := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	builder := sq.
		Select("time", "open", "high", "low", "close", "volume").
		From(source).
		OrderBy("time ASC")

	if req.Ticker != "" {
		builder = builder.Where(squirrel.Eq{"symbol": req.Ticker})
	}

	if !req.Start.IsZero() {
		builder = builder.Where(squirrel.GtOrEq{"time": req.Start.UTC()})
	}

	if !req.End.IsZero() {
		builder = builder.Where(squirrel.LtOrEq{"time": req.End.UTC()})
	}

	return builder.ToSql()
}
