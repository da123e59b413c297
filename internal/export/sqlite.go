package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS indicator_values (
	symbol     TEXT    NOT NULL,
	interval   TEXT    NOT NULL,
	time       INTEGER NOT NULL,
	indicator  TEXT    NOT NULL,
	"column"   TEXT    NOT NULL,
	value      REAL    NOT NULL,
	PRIMARY KEY (symbol, interval, indicator, "column", time)
);
`

// writeSQLite upserts rows into the indicator_values table of the database at path.
// Re-exporting the same window replaces values instead of duplicating them.
func writeSQLite(ctx context.Context, path string, rows []Row) (err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	defer db.Close()

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
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
		INSERT INTO indicator_values (symbol, interval, time, indicator, "column", value)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, interval, indicator, "column", time) DO UPDATE SET
			value = excluded.value
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err = stmt.ExecContext(ctx, r.Symbol, r.Interval, r.Timestamp, r.Indicator, r.Column, r.Value); err != nil {
			return fmt.Errorf("failed to insert %s %s at %d: %w", r.Indicator, r.Column, r.Timestamp, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
