// Package netlify implements the hosting client against the Netlify REST API.
package netlify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sitedrop/pkg/domain/model"
	"github.com/m-mizutani/sitedrop/pkg/domain/types"
)

// DefaultBaseURL is the Netlify API root
const DefaultBaseURL = "https://api.netlify.com/api/v1"

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// Client calls the Netlify API with a bearer token
type Client struct {
	token      types.AccessToken
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for a test server
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Client. An empty token is accepted so the server can start;
// HasCredential reports it and every API call fails with an AuthError.
func New(token types.AccessToken, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredential reports whether an access token is configured
func (c *Client) HasCredential() bool {
	return c.token != ""
}

type createSiteRequest struct {
	Name string `json:"name"`
}

type siteResponse struct {
	ID     string `json:"id"`
	SiteID string `json:"site_id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	SSLURL string `json:"ssl_url"`
}

type deployResponse struct {
	ID       string `json:"id"`
	DeployID string `json:"deploy_id"`
	State    string `json:"state"`
}

// CreateSite creates a site named name
func (c *Client) CreateSite(ctx context.Context, name string) (*model.SiteRecord, error) {
	const op = "create site"

	body, err := json.Marshal(createSiteRequest{Name: name})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal create site request")
	}

	respBody, status, err := c.do(ctx, op, c.baseURL+"/sites", "application/json", body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusConflict {
		return nil, &model.ConflictError{SiteName: name}
	}
	if err := checkStatus(op, status, respBody); err != nil {
		return nil, err
	}

	var resp siteResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &model.UpstreamError{Operation: op, Message: "malformed response", Cause: err}
	}

	site := &model.SiteRecord{
		SiteID: firstNonEmpty(resp.SiteID, resp.ID),
		Name:   firstNonEmpty(resp.Name, name),
		URL:    firstNonEmpty(resp.URL, resp.SSLURL),
	}
	if site.SiteID == "" {
		return nil, &model.UpstreamError{Operation: op, Message: "response has no site id"}
	}

	ctxlog.From(ctx).Debug("Created site", "site_id", site.SiteID, "url", site.URL)
	return site, nil
}

// CreateDeploy uploads archive as a new deploy of siteID
func (c *Client) CreateDeploy(ctx context.Context, siteID string, archive []byte) (*model.DeployReceipt, error) {
	const op = "create deploy"

	endpoint := c.baseURL + "/sites/" + url.PathEscape(siteID) + "/deploys"
	respBody, status, err := c.do(ctx, op, endpoint, "application/zip", archive)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(op, status, respBody); err != nil {
		return nil, err
	}

	var resp deployResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &model.UpstreamError{Operation: op, Message: "malformed response", Cause: err}
	}

	receipt := &model.DeployReceipt{
		DeployID: firstNonEmpty(resp.ID, resp.DeployID),
		State:    resp.State,
	}
	if receipt.DeployID == "" {
		return nil, &model.UpstreamError{Operation: op, Message: "response has no deploy confirmation"}
	}

	ctxlog.From(ctx).Debug("Created deploy", "deploy_id", receipt.DeployID, "state", receipt.State)
	return receipt, nil
}

// do sends one authenticated POST and returns the body and status. It never
// retries.
func (c *Client) do(ctx context.Context, op, endpoint, contentType string, body []byte) ([]byte, int, error) {
	if !c.HasCredential() {
		return nil, 0, &model.AuthError{Message: "access token is not configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to create request", goerr.V("endpoint", endpoint))
	}
	req.Header.Set("Authorization", "Bearer "+c.token.String())
	req.Header.Set("Content-Type", contentType)

	ctxlog.From(ctx).Debug("Sending request to hosting provider",
		"operation", op,
		"endpoint", endpoint,
		"size", len(body),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &model.UpstreamError{Operation: op, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &model.UpstreamError{Operation: op, Message: "failed to read response", Cause: err}
	}

	return respBody, resp.StatusCode, nil
}

func checkStatus(op string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	msg := string(body)
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &model.AuthError{StatusCode: status, Message: msg}
	default:
		return &model.UpstreamError{Operation: op, StatusCode: status, Message: msg}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
