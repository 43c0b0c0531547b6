package cli

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sitedrop/pkg/cli/config"
	controller "github.com/m-mizutani/sitedrop/pkg/controller/http"
	lambdactl "github.com/m-mizutani/sitedrop/pkg/controller/lambda"
	"github.com/m-mizutani/sitedrop/pkg/usecase"
)

func cmdLambda(file *config.File) *cli.Command {
	var (
		netlifyCfg     config.Netlify
		sentryCfg      config.Sentry
		maxUploadBytes int64
	)

	flags := append(netlifyCfg.Flags(), sentryCfg.Flags()...)
	flags = append(flags, &cli.Int64Flag{
		Name:        "max-upload-bytes",
		Usage:       "Maximum size of one decoded request body, 0 for no limit",
		Value:       controller.DefaultMaxUploadBytes,
		Destination: &maxUploadBytes,
		Sources:     cli.EnvVars("SITEDROP_MAX_UPLOAD_BYTES"),
	})

	return &cli.Command{
		Name:   "lambda",
		Usage:  "Run the deploy endpoint as a serverless function",
		Flags:  flags,
		Before: applyFile(file),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			hosting := netlifyCfg.New()
			if !hosting.HasCredential() {
				logger.Warn("Netlify access token is not set, deploy requests will fail until it is configured")
			}

			handler := lambdactl.NewHandler(usecase.NewDeploy(hosting), maxUploadBytes)

			logger.Info("Starting lambda handler")
			lambda.StartWithOptions(handler.Handle, lambda.WithContext(ctx))
			return nil
		},
	}
}
