package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sitedrop/pkg/cli/config"
	controller "github.com/m-mizutani/sitedrop/pkg/controller/http"
	"github.com/m-mizutani/sitedrop/pkg/metrics"
	"github.com/m-mizutani/sitedrop/pkg/usecase"
)

func cmdServe(file *config.File) *cli.Command {
	var (
		serverCfg  config.Server
		netlifyCfg config.Netlify
		sentryCfg  config.Sentry
	)

	flags := append(serverCfg.Flags(), netlifyCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server with the upload form and the deploy endpoint",
		Flags:   flags,
		Before:  applyFile(file),
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

			logger.Info("Starting sitedrop server",
				slog.String("addr", serverCfg.Addr),
				slog.String("deploy_path", serverCfg.DeployPath),
				slog.Int64("max_upload_bytes", serverCfg.MaxUploadBytes),
				slog.Any("netlify", netlifyCfg),
			)

			collector := metrics.NewCollector()
			deployUC := usecase.NewDeploy(hosting, usecase.WithMetrics(collector))

			opts := append(serverCfg.Options(), controller.WithMetrics(collector))
			server, err := controller.NewServer(ctx, deployUC, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server stopped", goerr.V("addr", serverCfg.Addr))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
