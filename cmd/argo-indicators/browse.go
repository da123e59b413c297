package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-indicators/internal/app"
	"github.com/rxtech-lab/argo-indicators/internal/browse"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:   "browse",
		Usage:  "Run the analysis and explore the quotes and indicator values interactively",
		Flags:  analyzeFlags(),
		Action: browseAction,
	}
}

func browseAction(ctx context.Context, cmd *cli.Command) error {
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

	program := tea.NewProgram(browse.NewModel(result.Output.Result),
		tea.WithContext(ctx),
		tea.WithOutput(cmd.Root().Writer),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, "terminal viewer failed", err)
	}

	return nil
}
