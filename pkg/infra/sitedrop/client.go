// Package sitedrop is a client for a running deploy endpoint. It submits the
// same multipart form as the browser upload page.
package sitedrop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sitedrop/pkg/domain/model"
)

// FilesField is the form field the upload page sends files under
const FilesField = "files"

// RequestError is a non-2xx answer of the deploy endpoint
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("deploy endpoint returned %d: %s", e.StatusCode, e.Message)
}

// Client posts deploy forms to Endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for uploads
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Client for the deploy endpoint URL
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends req once and returns the endpoint's result. A non-2xx answer
// is returned as *RequestError carrying the message from the JSON body.
func (c *Client) Upload(ctx context.Context, req *model.DeployRequest) (*model.DeployResult, error) {
	contentType, body, err := encodeForm(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("endpoint", c.endpoint))
	}
	httpReq.Header.Set("Content-Type", contentType)

	ctxlog.From(ctx).Debug("Uploading files",
		"endpoint", c.endpoint,
		"site_name", req.SiteName,
		"file_count", len(req.Files),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send deploy request", goerr.V("endpoint", c.endpoint))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read deploy response")
	}

	var result model.DeployResult
	decodeErr := json.Unmarshal(data, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := result.Message
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, goerr.Wrap(decodeErr, "malformed deploy response", goerr.V("body", string(data)))
	}

	return &result, nil
}

func encodeForm(req *model.DeployRequest) (string, *bytes.Buffer, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("siteName", req.SiteName); err != nil {
		return "", nil, goerr.Wrap(err, "failed to write siteName field")
	}

	for _, f := range req.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FilesField, f.Filename))
		mimeType := f.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		h.Set("Content-Type", mimeType)

		part, err := w.CreatePart(h)
		if err != nil {
			return "", nil, goerr.Wrap(err, "failed to create file part", goerr.V("filename", f.Filename))
		}
		if _, err := part.Write(f.Content); err != nil {
			return "", nil, goerr.Wrap(err, "failed to write file part", goerr.V("filename", f.Filename))
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, goerr.Wrap(err, "failed to close multipart writer")
	}
	return w.FormDataContentType(), &buf, nil
}
