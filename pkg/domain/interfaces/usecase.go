package interfaces

import (
	"context"

	"github.com/m-mizutani/sitedrop/pkg/domain/model"
)

// DeployUseCase defines the interface for publishing uploaded files as a site
type DeployUseCase interface {
	// Deploy validates the request, creates the site and publishes the files
	Deploy(ctx context.Context, req *model.DeployRequest) (*model.DeployResult, error)
}
