// Package archive packages uploaded files into a ZIP archive.
package archive

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/sitedrop/pkg/domain/model"
)

// Builder appends entries to a ZIP stream as they become available.
// Entries are compressed with Deflate at maximum compression. Entry names are
// used verbatim; duplicates are written as separate entries and the last one
// wins when the archive is extracted.
type Builder struct {
	zw      *zip.Writer
	entries int
	closed  bool
	err     error
}

// NewBuilder creates a Builder that writes the archive to w
func NewBuilder(w io.Writer) *Builder {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return &Builder{zw: zw}
}

// Add writes one entry. Once an Add fails, the Builder stays failed.
func (b *Builder) Add(name string, content []byte) error {
	return b.AddReader(name, bytes.NewReader(content))
}

// AddReader writes one entry from r
func (b *Builder) AddReader(name string, r io.Reader) error {
	if b.err != nil {
		return b.err
	}
	if b.closed {
		return goerr.New("archive is already finalized", goerr.V("name", name))
	}

	w, err := b.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		b.err = goerr.Wrap(err, "failed to create archive entry", goerr.V("name", name))
		return b.err
	}
	if _, err := io.Copy(w, r); err != nil {
		b.err = goerr.Wrap(err, "failed to write archive entry", goerr.V("name", name))
		return b.err
	}

	b.entries++
	return nil
}

// Entries returns the number of entries written so far
func (b *Builder) Entries() int {
	return b.entries
}

// Close writes the central directory. The archive is complete only after
// Close returns nil.
func (b *Builder) Close() error {
	if b.err != nil {
		return b.err
	}
	if b.closed {
		return nil
	}
	b.closed = true

	if err := b.zw.Close(); err != nil {
		b.err = goerr.Wrap(err, "failed to finalize archive")
		return b.err
	}
	return nil
}

// Build packages files into a complete archive. No bytes are returned when
// any step fails.
func Build(files []model.UploadedFile) ([]byte, error) {
	var buf bytes.Buffer
	b := NewBuilder(&buf)

	for _, f := range files {
		if err := b.Add(f.Filename, f.Content); err != nil {
			return nil, err
		}
	}
	if err := b.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
