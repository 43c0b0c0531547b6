package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Client holds configuration of the terminal upload client
type Client struct {
	Endpoint string
	SiteName string
	Timeout  time.Duration
}

// Flags returns CLI flags for the upload client
func (c *Client) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "endpoint",
			Usage:       "URL of the deploy endpoint",
			Value:       "http://localhost:8080/api/deploy",
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("SITEDROP_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "site-name",
			Aliases:     []string{"n"},
			Usage:       "Name of the site to create (lowercase letters, digits and hyphens)",
			Destination: &c.SiteName,
			Sources:     cli.EnvVars("SITEDROP_SITE_NAME"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of the whole upload, 0 for none",
			Value:       0,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("SITEDROP_TIMEOUT"),
		},
	}
}
