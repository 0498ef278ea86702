package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/lynxeval/cmd/lynxeval/server"
	"github.com/atlanticdynamic/lynxeval/internal/config"
	"github.com/atlanticdynamic/lynxeval/internal/logging"
	"github.com/atlanticdynamic/lynxeval/internal/logging/writers"
)

func newServerCmd() *cli.Command {
	return &cli.Command{
		Name:   "server",
		Usage:  "Start the evaluation server",
		Flags:  serverFlags(),
		Action: serverAction,
	}
}

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to TOML configuration file",
			Aliases: []string{"c"},
		},
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "Address for the HTTP API, overrides http.address",
			Aliases: []string{"l"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "trace, debug, info, warn or error; overrides logging.level",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "text or json; overrides logging.format",
		},
	}
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadServerConfig(cmd)
	if err != nil {
		return cli.Exit(err, 1)
	}

	out, err := writers.CreateWriter(cfg.Logging.Output)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to open log output: %w", err), 1)
	}
	defer func() { _ = out.Close() }()

	handler, err := logging.NewHandler(cfg.Logging.Format, cfg.Logging.Level, out)
	if err != nil {
		return cli.Exit(err, 1)
	}
	slog.SetDefault(slog.New(handler))

	if err := server.Run(ctx, cfg, handler, cmd.Root().Version); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

// loadServerConfig reads --config (or the defaults) and applies flag overrides.
func loadServerConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.NewDefault()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.NewConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := cmd.String("listen"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := cmd.String("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := cmd.String("log-format"); v != "" {
		cfg.Logging.Format = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrFailedToValidateConfig, err)
	}
	return cfg, nil
}
