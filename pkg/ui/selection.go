// Package ui holds the upload form rules shared by the terminal client: which
// files may be selected, how they are listed and how progress is shown.
package ui

import (
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// AllowedExtensions are the file suffixes accepted by the upload form,
// compared case-insensitively
var AllowedExtensions = []string{".html", ".htm"}

// MessageDisallowedFile is shown when a batch contains a non-HTML file
const MessageDisallowedFile = "Hanya file HTML (.html atau .htm) yang diizinkan untuk diunggah."

// ErrDisallowedFile is returned when a batch is rejected
var ErrDisallowedFile = goerr.New(MessageDisallowedFile)

// File is one entry of the upload list
type File struct {
	Name     string
	Path     string
	Size     int64
	MimeType string
}

// IsAllowedName reports whether name ends with an allowed extension
func IsAllowedName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Selection is the current upload list. A new batch replaces the list as a
// whole, or is rejected as a whole.
type Selection struct {
	files []File
}

// Replace swaps the list for batch. If any file in batch is not allowed the
// list is left unchanged and ErrDisallowedFile is returned.
func (s *Selection) Replace(batch []File) error {
	for _, f := range batch {
		if !IsAllowedName(f.Name) {
			return goerr.Wrap(ErrDisallowedFile, "batch rejected", goerr.V("name", f.Name))
		}
	}
	s.files = slices.Clone(batch)
	return nil
}

// Remove drops the entry at index i. Out of range indexes are ignored.
func (s *Selection) Remove(i int) {
	if i < 0 || i >= len(s.files) {
		return
	}
	s.files = slices.Delete(s.files, i, i+1)
}

// Files returns a copy of the current list
func (s *Selection) Files() []File {
	return slices.Clone(s.files)
}

// Len returns the number of selected files
func (s *Selection) Len() int {
	return len(s.files)
}

// TotalSize sums the sizes of the selected files
func (s *Selection) TotalSize() int64 {
	var total int64
	for _, f := range s.files {
		total += f.Size
	}
	return total
}
