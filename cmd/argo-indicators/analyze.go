package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-indicators/internal/app"
	"github.com/rxtech-lab/argo-indicators/internal/report"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:   "analyze",
		Usage:  "Fetch quotes, compute indicators, print a summary and write charts",
		Flags:  analyzeFlags(),
		Action: analyzeAction,
	}
}

// analyzeAction prints the summary on success. On failure the details go to the log file
// and run prints a single line.
func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ticker, err := requireTicker(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Error("Invalid configuration", zap.Error(err))

		return err
	}

	progress := newFetchProgress(cmd.Root().ErrWriter)

	result, err := app.Analyze(ctx, app.AnalyzeOptions{
		Config:     cfg,
		Ticker:     ticker,
		OnProgress: progress.Update,
		Callbacks:  noCallbacks(),
		Source:     nil,
		Log:        log,
	})
	progress.Finish()

	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, report.Render(result.Summary))

	return nil
}
