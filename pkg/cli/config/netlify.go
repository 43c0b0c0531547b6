package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sitedrop/pkg/domain/types"
	"github.com/m-mizutani/sitedrop/pkg/infra/netlify"
)

// Netlify holds hosting provider configuration
type Netlify struct {
	Token   string
	BaseURL string
}

// Flags returns CLI flags for Netlify configuration. The token is optional so
// the server starts without it; deploys then fail with a configuration error.
func (c *Netlify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "netlify-access-token",
			Usage:       "Netlify personal access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("NETLIFY_ACCESS_TOKEN", "SITEDROP_NETLIFY_ACCESS_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "netlify-api-url",
			Usage:       "Netlify API base URL",
			Value:       netlify.DefaultBaseURL,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("SITEDROP_NETLIFY_API_URL"),
		},
	}
}

// New creates the Netlify client
func (c *Netlify) New() *netlify.Client {
	return netlify.New(types.AccessToken(c.Token), netlify.WithBaseURL(c.BaseURL))
}
