// Package lambda runs the deploy endpoint as an API Gateway proxy function,
// the runtime Netlify Functions is built on.
package lambda

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/sitedrop/pkg/domain/interfaces"
	"github.com/m-mizutani/sitedrop/pkg/domain/model"
	"github.com/m-mizutani/sitedrop/pkg/utils/errs"
	"github.com/m-mizutani/sitedrop/pkg/utils/formdata"
)

// Handler processes API Gateway proxy events
type Handler struct {
	deployUC       interfaces.DeployUseCase
	maxUploadBytes int64
}

// NewHandler creates a new lambda Handler. maxUploadBytes <= 0 disables the
// decoded body size limit.
func NewHandler(deployUC interfaces.DeployUseCase, maxUploadBytes int64) *Handler {
	return &Handler{
		deployUC:       deployUC,
		maxUploadBytes: maxUploadBytes,
	}
}

// Handle processes one invocation. Domain failures become JSON responses; the
// returned error is always nil so the runtime never replaces them with its own.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := ctxlog.From(ctx).With("request_id", event.RequestContext.RequestID)
	ctx = ctxlog.With(ctx, logger)

	if event.HTTPMethod != http.MethodPost {
		resp := respond(ctx, http.StatusMethodNotAllowed, &model.DeployResult{
			Success: false,
			Message: model.MessageMethodNotAllow,
		})
		resp.Headers["Allow"] = http.MethodPost
		return resp, nil
	}

	body, err := formdata.DecodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return h.errorResponse(ctx, err), nil
	}
	if h.maxUploadBytes > 0 && int64(len(body)) > h.maxUploadBytes {
		return h.errorResponse(ctx, &model.TooLargeError{Limit: h.maxUploadBytes}), nil
	}

	req, err := formdata.Parse(ctx, headerValue(event.Headers, "Content-Type"), bytes.NewReader(body))
	if err != nil {
		return h.errorResponse(ctx, err), nil
	}

	result, err := h.deployUC.Deploy(ctx, req)
	if err != nil {
		return h.errorResponse(ctx, err), nil
	}

	logger.Info("Site deployed", "site_name", req.SiteName, "url", result.URL)
	return respond(ctx, http.StatusOK, result), nil
}

func (h *Handler) errorResponse(ctx context.Context, err error) events.APIGatewayProxyResponse {
	status, result := model.ErrorResult(err)
	if status >= http.StatusInternalServerError {
		errs.Handle(ctx, "Deploy failed", err)
	} else {
		ctxlog.From(ctx).Info("Deploy rejected", "status", status, "error", err)
	}
	return respond(ctx, status, result)
}

func respond(ctx context.Context, status int, v any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(v)
	if err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
		status = http.StatusInternalServerError
		data = []byte(`{"success":false,"message":"` + model.MessageInternalError + `"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}
}

// headerValue looks up a header case-insensitively; proxies do not agree on
// header casing.
func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
