package writer

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// CSVWriter collects quotes in memory and writes them with a header row on Finalize.
// The file layout is the one CSVClient reads back.
type CSVWriter struct {
	outputPath  string
	quotes      []types.Quote
	initialized bool
}

func NewCSVWriter(outputPath string) MarketDataWriter {
	return &CSVWriter{
		outputPath:  outputPath,
		quotes:      nil,
		initialized: false,
	}
}

func (w *CSVWriter) Initialize() error {
	w.quotes = make([]types.Quote, 0)
	w.initialized = true

	return nil
}

func (w *CSVWriter) Write(quote types.Quote) error {
	if !w.initialized {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	w.quotes = append(w.quotes, quote)

	return nil
}

func (w *CSVWriter) Finalize() (string, error) {
	if !w.initialized {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	file, err := os.Create(w.outputPath)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create %s", w.outputPath)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&w.quotes, file); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write %s", w.outputPath)
	}

	return w.outputPath, nil
}

func (w *CSVWriter) Close() error {
	w.quotes = nil
	w.initialized = false

	return nil
}

func (w *CSVWriter) GetOutputPath() string {
	return w.outputPath
}
