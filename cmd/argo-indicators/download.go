package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-indicators/internal/app"
	"github.com/rxtech-lab/argo-indicators/internal/config"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata/writer"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download quotes to a parquet or csv file",
		Flags: append(sourceFlags(),
			&cli.StringFlag{
				Name:    "writer",
				Aliases: []string{"w"},
				Usage:   fmt.Sprintf("File format (%s, %s)", writer.WriterDuckDB, writer.WriterCSV),
				Value:   string(writer.WriterDuckDB),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Output directory",
				Value:   "data",
			},
		),
		Action: downloadAction,
	}
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ticker, err := requireTicker(cmd)
	if err != nil {
		return err
	}

	writerType := writer.WriterType(cmd.String("writer"))
	if writerType != writer.WriterDuckDB && writerType != writer.WriterCSV {
		return errors.Newf(errors.ErrCodeInvalidParameter, "unsupported writer %q", writerType)
	}

	cfg := config.Default()
	if err := applySourceFlags(cmd, &cfg); err != nil {
		return err
	}

	params, err := cfg.FetchParams(ticker)
	if err != nil {
		return err
	}

	progress := newFetchProgress(cmd.Root().ErrWriter)

	path, err := app.Download(ctx, app.DownloadOptions{
		Client:     cfg.Provider.ClientConfig(),
		Params:     params,
		Writer:     writerType,
		DataDir:    cmd.String("data"),
		OnProgress: progress.Update,
		Log:        log,
	})
	progress.Finish()

	if err != nil {
		log.Error("Download failed", zap.Error(err))

		return err
	}

	fmt.Fprintln(cmd.Root().Writer, path)

	return nil
}
