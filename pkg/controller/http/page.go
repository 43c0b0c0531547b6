package http

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sitedrop/pkg/domain/types"
	"github.com/m-mizutani/sitedrop/pkg/web"
)

// pageHandler serves the upload form and its assets
type pageHandler struct {
	index *template.Template
	page  web.Page
}

func newPageHandler(deployPath string) (*pageHandler, error) {
	tmpl, err := web.IndexTemplate()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse index template")
	}

	return &pageHandler{
		index: tmpl,
		page: web.Page{
			DeployPath: deployPath,
			Version:    types.Version,
		},
	}, nil
}

// ServeIndex renders the upload form
func (h *pageHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.index.Execute(&buf, h.page); err != nil {
		ctxlog.From(r.Context()).Error("Failed to render index page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// StaticHandler serves embedded assets under /static/ without directory
// listings
func (h *pageHandler) StaticHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(noListingFS{web.Static})))
}

// noListingFS hides directories so that http.FileServer never lists them
type noListingFS struct {
	fs.FS
}

func (f noListingFS) Open(name string) (fs.File, error) {
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}

	if stat, err := file.Stat(); err == nil && stat.IsDir() {
		_ = file.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return file, nil
}
