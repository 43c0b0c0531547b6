package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sitedrop/pkg/domain/interfaces"
	"github.com/m-mizutani/sitedrop/pkg/domain/model"
	"github.com/m-mizutani/sitedrop/pkg/metrics"
	"github.com/m-mizutani/sitedrop/pkg/utils/archive"
)

type deployUseCase struct {
	hosting interfaces.HostingClient
	metrics *metrics.Collector
}

// DeployOption is a functional option for the deploy use case
type DeployOption func(*deployUseCase)

// WithMetrics records pipeline metrics into c
func WithMetrics(c *metrics.Collector) DeployOption {
	return func(uc *deployUseCase) {
		uc.metrics = c
	}
}

// NewDeploy creates a new instance of DeployUseCase
func NewDeploy(hosting interfaces.HostingClient, opts ...DeployOption) interfaces.DeployUseCase {
	uc := &deployUseCase{hosting: hosting}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Deploy validates the request, creates the site, archives the files and
// uploads the archive. The deploy step only runs after the site was created.
func (uc *deployUseCase) Deploy(ctx context.Context, req *model.DeployRequest) (*model.DeployResult, error) {
	logger := ctxlog.From(ctx).With("deploy_id", uuid.NewString())
	ctx = ctxlog.With(ctx, logger)

	result, err := uc.deploy(ctx, req)
	uc.metrics.RecordOutcome(outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *deployUseCase) deploy(ctx context.Context, req *model.DeployRequest) (*model.DeployResult, error) {
	logger := ctxlog.From(ctx)

	if err := req.Validate(); err != nil {
		logger.Info("Rejected deploy request", "error", err)
		return nil, err
	}

	if !uc.hosting.HasCredential() {
		logger.Error("Hosting provider access token is not configured")
		return nil, goerr.Wrap(&model.ConfigError{Field: "netlify access token"}, "cannot deploy")
	}

	uc.metrics.RecordUpload(len(req.Files))
	logger.Info("Deploying site",
		"site_name", req.SiteName,
		"file_count", len(req.Files),
		"total_size_bytes", req.TotalSize(),
	)

	start := time.Now()
	site, err := uc.hosting.CreateSite(ctx, req.SiteName)
	uc.metrics.RecordStage(metrics.StageCreateSite, time.Since(start), err)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create site", goerr.V("site_name", req.SiteName))
	}
	logger.Info("Created site", "site_id", site.SiteID, "url", site.URL)

	start = time.Now()
	zipData, err := archive.Build(req.Files)
	uc.metrics.RecordStage(metrics.StageBuildArchive, time.Since(start), err)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build archive", goerr.V("site_id", site.SiteID))
	}
	uc.metrics.RecordArchive(len(zipData))

	start = time.Now()
	receipt, err := uc.hosting.CreateDeploy(ctx, site.SiteID, zipData)
	uc.metrics.RecordStage(metrics.StageDeploy, time.Since(start), err)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to deploy archive",
			goerr.V("site_id", site.SiteID),
			goerr.V("archive_size", len(zipData)),
		)
	}

	logger.Info("Deploy completed",
		slog.String("site_id", site.SiteID),
		slog.String("remote_deploy_id", receipt.DeployID),
		slog.String("state", receipt.State),
		slog.String("url", site.URL),
	)

	return &model.DeployResult{
		Success: true,
		URL:     site.URL,
		Message: model.MessageDeploySucceeded,
	}, nil
}

func outcomeOf(err error) string {
	var (
		validationErr *model.ValidationError
		conflictErr   *model.ConflictError
		configErr     *model.ConfigError
	)

	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &validationErr):
		return metrics.OutcomeInvalid
	case errors.As(err, &conflictErr):
		return metrics.OutcomeConflict
	case errors.As(err, &configErr):
		return metrics.OutcomeConfig
	default:
		return metrics.OutcomeFailure
	}
}
