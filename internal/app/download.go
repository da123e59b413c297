package app

import (
	"context"

	"github.com/rxtech-lab/argo-indicators/internal/logger"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// DownloadOptions saves one ticker's quotes to a file.
type DownloadOptions struct {
	Client     marketdata.ClientConfig
	Params     marketdata.FetchParams
	Writer     writer.WriterType
	DataDir    string
	OnProgress provider.OnDownloadProgress
	Log        *logger.Logger
}

// Download fetches quotes and writes them under DataDir. It returns the written file.
func Download(ctx context.Context, opts DownloadOptions) (string, error) {
	log := opts.Log.Named("download")

	client, err := marketdata.NewClient(opts.Client, opts.OnProgress)
	if err != nil {
		return "", err
	}

	w, err := client.NewWriter(opts.Writer, opts.DataDir, opts.Params)
	if err != nil {
		return "", err
	}

	path, err := client.Download(ctx, opts.Params, w)
	if err != nil {
		log.Error("Download failed", zap.String("ticker", opts.Params.Ticker), zap.Error(err))

		return "", err
	}

	log.Info("Download finished", zap.String("ticker", opts.Params.Ticker), zap.String("path", path))

	return path, nil
}
