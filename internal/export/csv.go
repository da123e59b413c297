package export

import (
	"context"
	"os"

	"github.com/gocarina/gocsv"
)

func writeCSV(_ context.Context, path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return err
	}

	return file.Sync()
}
