package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-indicators/internal/config"
	"github.com/rxtech-lab/argo-indicators/internal/engine"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Create or check a config file",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the default config and its JSON schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Config file to create",
						Value: "argo-indicators.yaml",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: configInitAction,
			},
			{
				Name:  "validate",
				Usage: "Check a config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Config file to check",
						Required: true,
					},
				},
				Action: configValidateAction,
			},
		},
	}
}

// configInitAction writes the schema next to the config so editors using the
// yaml-language-server comment can resolve it.
func configInitAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return errors.Newf(errors.ErrCodeInvalidParameter, "%s already exists (use --force to overwrite)", path)
	}

	if err := config.Default().SaveToFile(path); err != nil {
		return err
	}

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	schemaPath := filepath.Join(filepath.Dir(path), config.SchemaFileName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to write %s", schemaPath)
	}

	fmt.Fprintf(cmd.Root().Writer, "Config written to %s\nSchema written to %s\n", path, schemaPath)

	return nil
}

func configValidateAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "%s is valid: %s provider, %d indicators, interval %s\n",
		path, cfg.Provider.Type, len(cfg.Indicators), cfg.Fetch.Interval)

	return nil
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the config JSON schema",
		Action: func(_ context.Context, cmd *cli.Command) error {
			schemaJSON, err := config.GenerateSchemaJSON()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.Root().Writer, schemaJSON)

			return nil
		},
	}
}

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List the supported market data providers",
		Action: func(_ context.Context, cmd *cli.Command) error {
			for _, name := range marketdata.GetSupportedProviders() {
				info, err := marketdata.GetProviderInfo(name)
				if err != nil {
					return err
				}

				needs := ""
				if info.RequiresAuth {
					needs = " (api key)"
				} else if info.RequiresFile {
					needs = " (--file)"
				}

				fmt.Fprintf(cmd.Root().Writer, "%-8s %s%s: %s\n", info.Name, info.DisplayName, needs, info.Description)
			}

			return nil
		},
	}
}

func noCallbacks() engine.LifecycleCallbacks {
	return engine.LifecycleCallbacks{
		OnFetchStart:        nil,
		OnFetchEnd:          nil,
		OnIndicatorComputed: nil,
		OnArtifactWritten:   nil,
	}
}
