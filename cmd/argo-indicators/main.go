package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-indicators/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)

	if err := cmd.Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, formatError(err))

		return exitCode(err)
	}

	return 0
}

func newRootCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "argo-indicators",
		Usage:     "Compute technical indicators for a ticker and chart them",
		Version:   version.GetVersion(),
		Writer:    stdout,
		ErrWriter: stderr,
		// Errors are printed once by run.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags:          analyzeFlags(),
		Action:         analyzeAction,
		Commands: []*cli.Command{
			analyzeCommand(),
			browseCommand(),
			downloadCommand(),
			configCommand(),
			schemaCommand(),
			providersCommand(),
		},
	}
}
