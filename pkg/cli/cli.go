package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sitedrop/pkg/cli/config"
	"github.com/m-mizutani/sitedrop/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg  config.Logger
		configPath string
		logger     *slog.Logger
	)
	file := &config.File{}

	flags := append(loggerCfg.Flags(), &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to a TOML config file; flags and environment variables take precedence",
		Destination: &configPath,
		Sources:     cli.EnvVars("SITEDROP_CONFIG"),
	})

	app := &cli.Command{
		Name:    types.ServiceName,
		Usage:   "Publish uploaded HTML files as a new Netlify site",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			loaded, err := config.LoadFile(configPath)
			if err != nil {
				return nil, err
			}
			*file = *loaded
			if err := file.Apply(c); err != nil {
				return nil, err
			}

			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(file),
			cmdLambda(file),
			cmdDeploy(file),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		attrs := []any{slog.Any("error", err)}
		if ge := goerr.Unwrap(err); ge != nil {
			attrs = append(attrs, slog.Any("values", ge.Values()))
		}
		logger.Error("CLI execution failed", attrs...)
		return err
	}

	return nil
}

// applyFile returns a Before hook that fills unset flags of a subcommand from
// the config file loaded by the root command
func applyFile(file *config.File) cli.BeforeFunc {
	return func(ctx context.Context, c *cli.Command) (context.Context, error) {
		if err := file.Apply(c); err != nil {
			return nil, err
		}
		return ctx, nil
	}
}
