package writer

import (
	"github.com/rxtech-lab/argo-indicators/internal/types"
)

// WriterType defines the format of downloaded quote files.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
	WriterCSV    WriterType = "csv"
)

// MarketDataWriter defines the interface for writing one instrument's quotes to a destination.
type MarketDataWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single quote.
	Write(quote types.Quote) error
	// Finalize completes the writing process (e.g., commits transactions, exports files).
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
