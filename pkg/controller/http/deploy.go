package http

import (
	"net/http"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/sitedrop/pkg/domain/interfaces"
	"github.com/m-mizutani/sitedrop/pkg/domain/model"
	"github.com/m-mizutani/sitedrop/pkg/utils/errs"
	"github.com/m-mizutani/sitedrop/pkg/utils/formdata"
)

// DeployHandler receives the upload form and publishes it as a new site
type DeployHandler struct {
	deployUC       interfaces.DeployUseCase
	maxUploadBytes int64
}

// NewDeployHandler creates a new DeployHandler. maxUploadBytes <= 0 disables
// the body size limit.
func NewDeployHandler(deployUC interfaces.DeployUseCase, maxUploadBytes int64) *DeployHandler {
	return &DeployHandler{
		deployUC:       deployUC,
		maxUploadBytes: maxUploadBytes,
	}
}

// Handle processes deploy requests
func (h *DeployHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(ctx, w, http.StatusMethodNotAllowed, &model.DeployResult{
			Success: false,
			Message: model.MessageMethodNotAllow,
		})
		return
	}

	body := r.Body
	if h.maxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	defer body.Close()

	req, err := formdata.Parse(ctx, r.Header.Get("Content-Type"), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.deployUC.Deploy(ctx, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.Info("Site deployed", "site_name", req.SiteName, "url", result.URL)
	writeJSON(ctx, w, http.StatusOK, result)
}

// writeError maps err to a status and user-facing payload. Server-side
// failures are logged with full detail; the payload only carries a generic
// message.
func (h *DeployHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status, result := model.ErrorResult(err)

	if status >= http.StatusInternalServerError {
		errs.Handle(ctx, "Deploy failed", err)
	} else {
		ctxlog.From(ctx).Info("Deploy rejected", "status", status, "error", err)
	}

	writeJSON(ctx, w, status, result)
}
