package interfaces

import (
	"context"

	"github.com/m-mizutani/sitedrop/pkg/domain/model"
)

// HostingClient defines operations against the hosting provider API
type HostingClient interface {
	// HasCredential reports whether an access credential is configured
	HasCredential() bool

	// CreateSite creates a new site with the given name
	CreateSite(ctx context.Context, name string) (*model.SiteRecord, error)

	// CreateDeploy uploads a ZIP archive as the site's new deploy
	CreateDeploy(ctx context.Context, siteID string, archive []byte) (*model.DeployReceipt, error)
}
