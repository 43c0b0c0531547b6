package config

import (
	"github.com/urfave/cli/v3"

	controller "github.com/m-mizutani/sitedrop/pkg/controller/http"
)

// Server holds server configuration
type Server struct {
	Addr           string
	DeployPath     string
	MaxUploadBytes int64
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("SITEDROP_ADDR"),
		},
		&cli.StringFlag{
			Name:        "deploy-path",
			Usage:       "Path of the deploy endpoint the upload form posts to",
			Value:       controller.DefaultDeployPath,
			Destination: &c.DeployPath,
			Sources:     cli.EnvVars("SITEDROP_DEPLOY_PATH"),
		},
		&cli.Int64Flag{
			Name:        "max-upload-bytes",
			Usage:       "Maximum size of one deploy request body, 0 for no limit",
			Value:       controller.DefaultMaxUploadBytes,
			Destination: &c.MaxUploadBytes,
			Sources:     cli.EnvVars("SITEDROP_MAX_UPLOAD_BYTES"),
		},
	}
}

// Options converts the configuration into server options
func (c *Server) Options() []controller.Option {
	return []controller.Option{
		controller.WithAddr(c.Addr),
		controller.WithDeployPath(c.DeployPath),
		controller.WithMaxUploadBytes(c.MaxUploadBytes),
	}
}
