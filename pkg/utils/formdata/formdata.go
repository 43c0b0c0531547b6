// Package formdata decodes the multipart/form-data upload sent by the upload
// form into a DeployRequest.
package formdata

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sitedrop/pkg/domain/model"
)

// SiteNameField is the form field carrying the requested site name
const SiteNameField = "siteName"

// DecodeBody returns the raw request body. Serverless runtimes deliver binary
// bodies base64-encoded and flag them with isBase64.
func DecodeBody(body string, isBase64 bool) ([]byte, error) {
	if !isBase64 {
		return []byte(body), nil
	}

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, &model.ParseError{Cause: goerr.Wrap(err, "failed to decode base64 body")}
	}
	return raw, nil
}

// Parse reads the whole multipart body. The siteName field keeps the last
// value seen regardless of where it appears relative to the file parts. Every
// part with a filename is treated as a file and buffered fully in memory.
func Parse(ctx context.Context, contentType string, body io.Reader) (*model.DeployRequest, error) {
	logger := ctxlog.From(ctx)

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, &model.ParseError{Cause: goerr.Wrap(err, "invalid content type", goerr.V("content_type", contentType))}
	}
	if mediaType != "multipart/form-data" {
		return nil, &model.ParseError{Cause: goerr.New("unexpected content type", goerr.V("content_type", mediaType))}
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, &model.ParseError{Cause: goerr.New("multipart boundary is missing")}
	}

	reader := multipart.NewReader(body, boundary)
	req := &model.DeployRequest{}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapReadError(err, "failed to read next part")
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, wrapReadError(err, "failed to read part", goerr.V("field", part.FormName()))
		}

		if filename := part.FileName(); filename != "" {
			req.Files = append(req.Files, model.UploadedFile{
				Filename: filename,
				Content:  data,
				MimeType: part.Header.Get("Content-Type"),
			})
			logger.Debug("Received file part",
				"field", part.FormName(),
				"filename", filename,
				"size", len(data),
			)
			continue
		}

		if part.FormName() == SiteNameField {
			if req.SiteName != "" {
				logger.Warn("siteName field repeated, keeping the last value")
			}
			req.SiteName = string(data)
		}
	}

	return req, nil
}

// wrapReadError keeps size limit violations distinguishable from malformed
// framing.
func wrapReadError(err error, msg string, opts ...goerr.Option) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &model.TooLargeError{Limit: maxErr.Limit}
	}
	return &model.ParseError{Cause: goerr.Wrap(err, msg, opts...)}
}
