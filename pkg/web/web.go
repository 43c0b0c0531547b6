// Package web embeds the browser upload form.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed static
var static embed.FS

//go:embed index.html
var indexHTML string

// Static holds the script and stylesheet, rooted so that app.js is at the top
var Static fs.FS

func init() {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	Static = sub
}

// Page is the data rendered into the index page
type Page struct {
	DeployPath string
	Version    string
}

// IndexTemplate returns the parsed index page template
func IndexTemplate() (*template.Template, error) {
	return template.New("index").Parse(indexHTML)
}
