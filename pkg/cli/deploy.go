package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/sitedrop/pkg/cli/config"
	"github.com/m-mizutani/sitedrop/pkg/domain/model"
	"github.com/m-mizutani/sitedrop/pkg/infra/sitedrop"
	"github.com/m-mizutani/sitedrop/pkg/ui"
)

// Messages of the terminal client, matching the upload page
const (
	msgSiteNameRequired = "Nama web harus diisi"
	msgFilesRequired    = "Pilih setidaknya satu file HTML untuk diunggah"
	msgDeployFailed     = "Terjadi kesalahan saat mendeploy"
)

var (
	errMark     = color.New(color.FgRed, color.Bold)
	successMark = color.New(color.FgGreen, color.Bold)
	dimText     = color.New(color.Faint)
	urlText     = color.New(color.FgCyan, color.Underline)
)

func cmdDeploy(file *config.File) *cli.Command {
	var clientCfg config.Client

	return &cli.Command{
		Name:      "deploy",
		Aliases:   []string{"d"},
		Usage:     "Upload local HTML files to a running sitedrop server",
		ArgsUsage: "FILE...",
		Flags:     clientCfg.Flags(),
		Before:    applyFile(file),
		Action: func(ctx context.Context, c *cli.Command) error {
			return runDeploy(ctx, c.Root().Writer, clientCfg, c.Args().Slice())
		},
	}
}

// runDeploy selects paths, uploads them and reports the outcome to w. No
// request is sent when the selection or the site name is invalid.
func runDeploy(ctx context.Context, w io.Writer, cfg config.Client, paths []string) error {
	if w == nil {
		w = os.Stdout
	}

	var selection ui.Selection
	batch, err := statFiles(paths)
	if err != nil {
		return reportError(w, err.Error(), err)
	}
	if err := selection.Replace(batch); err != nil {
		return reportError(w, ui.MessageDisallowedFile, err)
	}

	siteName := strings.TrimSpace(cfg.SiteName)
	if siteName == "" {
		return reportError(w, msgSiteNameRequired, goerr.New("site name is empty"))
	}
	if selection.Len() == 0 {
		return reportError(w, msgFilesRequired, goerr.New("no file selected"))
	}

	printSelection(w, &selection)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	progress := ui.NewProgress(w)
	progress.Update(ui.CheckpointStart)

	req, err := readFiles(siteName, selection.Files())
	if err != nil {
		progress.Abort()
		return reportError(w, err.Error(), err)
	}

	progress.Update(ui.CheckpointUploading)
	result, err := sitedrop.New(cfg.Endpoint).Upload(ctx, req)
	if err != nil {
		progress.Abort()

		msg := msgDeployFailed
		var reqErr *sitedrop.RequestError
		if errors.As(err, &reqErr) && reqErr.Message != "" {
			msg = reqErr.Message
		}
		return reportError(w, msg, err)
	}
	progress.Update(ui.CheckpointDeploying)
	progress.Update(ui.CheckpointSuccess)

	successMark.Fprint(w, "✔ ")
	fmt.Fprintln(w, result.Message)
	if result.URL != "" {
		urlText.Fprintln(w, result.URL)
	}
	return nil
}

func statFiles(paths []string) ([]ui.File, error) {
	batch := make([]ui.File, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to stat file", goerr.V("path", path))
		}
		if info.IsDir() {
			return nil, goerr.New("directories cannot be uploaded", goerr.V("path", path))
		}

		name := filepath.Base(path)
		batch = append(batch, ui.File{
			Name:     name,
			Path:     path,
			Size:     info.Size(),
			MimeType: mime.TypeByExtension(filepath.Ext(name)),
		})
	}
	return batch, nil
}

func readFiles(siteName string, files []ui.File) (*model.DeployRequest, error) {
	req := &model.DeployRequest{SiteName: siteName}
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read file", goerr.V("path", f.Path))
		}
		req.Files = append(req.Files, model.UploadedFile{
			Filename: f.Name,
			Content:  data,
			MimeType: f.MimeType,
		})
	}
	return req, nil
}

func printSelection(w io.Writer, selection *ui.Selection) {
	for _, f := range selection.Files() {
		fmt.Fprintf(w, "  %s %s ", ui.IconFor(f.MimeType).Glyph(), f.Name)
		dimText.Fprintf(w, "(%s)\n", ui.FormatFileSize(f.Size))
	}
	dimText.Fprintf(w, "  %d file, %s\n", selection.Len(), ui.FormatFileSize(selection.TotalSize()))
}

func reportError(w io.Writer, msg string, err error) error {
	errMark.Fprint(w, "✘ ")
	fmt.Fprintln(w, msg)
	return err
}
