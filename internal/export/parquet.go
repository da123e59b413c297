package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
)

// writeParquet stages rows in an in-memory DuckDB table and copies it to a parquet file,
// ordered by indicator, column and time.
func writeParquet(ctx context.Context, path string, rows []Row) (err error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		CREATE TABLE indicator_values (
			id TEXT,
			time TIMESTAMP,
			symbol TEXT,
			"interval" TEXT,
			indicator TEXT,
			"column" TEXT,
			value DOUBLE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO indicator_values (id, time, symbol, "interval", indicator, "column", value)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.ExecContext(ctx,
			uuid.New().String(),
			time.Unix(r.Timestamp, 0).UTC(),
			r.Symbol,
			r.Interval,
			r.Indicator,
			r.Column,
			r.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s %s at %d: %w", r.Indicator, r.Column, r.Timestamp, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	escaped := strings.ReplaceAll(path, "'", "''")

	_, err = db.ExecContext(ctx, fmt.Sprintf(
		`COPY (SELECT * FROM indicator_values ORDER BY indicator, "column", time) TO '%s' (FORMAT PARQUET)`, escaped))
	if err != nil {
		return fmt.Errorf("parquet copy failed: %w", err)
	}

	return nil
}
