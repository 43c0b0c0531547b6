package formdata_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/sitedrop/pkg/domain/model"
	"github.com/m-mizutani/sitedrop/pkg/utils/formdata"
)

type part struct {
	field    string
	filename string
	mimeType string
	content  string
}

func buildBody(t *testing.T, parts []part) (string, []byte) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename == "" {
			gt.NoError(t, w.WriteField(p.field, p.content))
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.filename+`"`)
		h.Set("Content-Type", p.mimeType)
		pw, err := w.CreatePart(h)
		gt.NoError(t, err)
		_, err = pw.Write([]byte(p.content))
		gt.NoError(t, err)
	}
	gt.NoError(t, w.Close())
	return w.FormDataContentType(), buf.Bytes()
}

func TestParse(t *testing.T) {
	ctx := context.Background()

	t.Run("site name and files in order", func(t *testing.T) {
		contentType, body := buildBody(t, []part{
			{field: "siteName", content: "my-test-site"},
			{field: "files", filename: "index.html", mimeType: "text/html", content: "<h1>hi</h1>"},
			{field: "files", filename: "about.htm", mimeType: "text/html", content: "<p>about</p>"},
		})

		req, err := formdata.Parse(ctx, contentType, bytes.NewReader(body))
		gt.NoError(t, err)
		gt.Value(t, req.SiteName).Equal("my-test-site")
		gt.Number(t, len(req.Files)).Equal(2)
		gt.Value(t, req.Files[0].Filename).Equal("index.html")
		gt.Value(t, string(req.Files[0].Content)).Equal("<h1>hi</h1>")
		gt.Value(t, req.Files[0].MimeType).Equal("text/html")
		gt.Value(t, req.Files[1].Filename).Equal("about.htm")
	})

	t.Run("last site name wins, even after file parts", func(t *testing.T) {
		contentType, body := buildBody(t, []part{
			{field: "siteName", content: "first"},
			{field: "files", filename: "index.html", mimeType: "text/html", content: "x"},
			{field: "siteName", content: "second"},
		})

		req, err := formdata.Parse(ctx, contentType, bytes.NewReader(body))
		gt.NoError(t, err)
		gt.Value(t, req.SiteName).Equal("second")
		gt.Number(t, len(req.Files)).Equal(1)
	})

	t.Run("missing site name is empty", func(t *testing.T) {
		contentType, body := buildBody(t, []part{
			{field: "files", filename: "index.html", mimeType: "text/html", content: "x"},
		})

		req, err := formdata.Parse(ctx, contentType, bytes.NewReader(body))
		gt.NoError(t, err)
		gt.Value(t, req.SiteName).Equal("")
	})

	t.Run("file parts under any field name are collected", func(t *testing.T) {
		contentType, body := buildBody(t, []part{
			{field: "other", filename: "page.html", mimeType: "text/html", content: "x"},
			{field: "note", content: "ignored"},
		})

		req, err := formdata.Parse(ctx, contentType, bytes.NewReader(body))
		gt.NoError(t, err)
		gt.Number(t, len(req.Files)).Equal(1)
		gt.Value(t, req.SiteName).Equal("")
	})

	t.Run("truncated body is a parse error", func(t *testing.T) {
		contentType, body := buildBody(t, []part{
			{field: "siteName", content: "my-site"},
			{field: "files", filename: "index.html", mimeType: "text/html", content: strings.Repeat("a", 256)},
		})

		req, err := formdata.Parse(ctx, contentType, bytes.NewReader(body[:len(body)/2]))
		gt.Value(t, req).Nil()
		var parseErr *model.ParseError
		gt.True(t, errors.As(err, &parseErr))
	})

	t.Run("non multipart content type is a parse error", func(t *testing.T) {
		_, err := formdata.Parse(ctx, "application/json", strings.NewReader("{}"))
		var parseErr *model.ParseError
		gt.True(t, errors.As(err, &parseErr))
	})

	t.Run("missing boundary is a parse error", func(t *testing.T) {
		_, err := formdata.Parse(ctx, "multipart/form-data", strings.NewReader(""))
		var parseErr *model.ParseError
		gt.True(t, errors.As(err, &parseErr))
	})

	t.Run("size limit is reported separately", func(t *testing.T) {
		contentType, body := buildBody(t, []part{
			{field: "files", filename: "index.html", mimeType: "text/html", content: strings.Repeat("a", 4096)},
		})

		limited := http.MaxBytesReader(nil, nopCloser{bytes.NewReader(body)}, 512)
		_, err := formdata.Parse(ctx, contentType, limited)
		var tooLarge *model.TooLargeError
		gt.True(t, errors.As(err, &tooLarge))
		gt.Number(t, tooLarge.Limit).Equal(int64(512))
	})
}

func TestDecodeBody(t *testing.T) {
	raw := "--boundary\r\nbinary \x00\xff data"

	t.Run("base64 body", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte(raw))
		decoded, err := formdata.DecodeBody(encoded, true)
		gt.NoError(t, err)
		gt.Value(t, string(decoded)).Equal(raw)
	})

	t.Run("plain body", func(t *testing.T) {
		decoded, err := formdata.DecodeBody(raw, false)
		gt.NoError(t, err)
		gt.Value(t, string(decoded)).Equal(raw)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := formdata.DecodeBody("%%%not-base64", true)
		var parseErr *model.ParseError
		gt.True(t, errors.As(err, &parseErr))
	})
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
