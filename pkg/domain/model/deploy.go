package model

import "regexp"

var siteNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// User-facing messages returned in DeployResult.Message
const (
	MessageDeploySucceeded = "Deploy berhasil"
	MessageMissingFields   = "Nama situs dan file harus disertakan"
	MessageInvalidSiteName = "Nama situs hanya boleh mengandung huruf kecil, angka, dan tanda hubung"
	MessageSiteNameTaken   = "Nama situs sudah digunakan. Silakan pilih nama lain."
	MessageInternalError   = "ada kesalahan di bagian backend, harap bersabar"
	MessageMisconfigured   = "ada kesalahan di bagian backend, harap bersabar (Konfigurasi Server Salah)"
	MessageMethodNotAllow  = "Method Not Allowed"
	MessageTooLarge        = "Ukuran file terlalu besar"
)

// UploadedFile is a single file part received from the upload form
type UploadedFile struct {
	Filename string
	Content  []byte
	MimeType string
}

// DeployRequest is the parsed upload form
type DeployRequest struct {
	SiteName string         // Empty when the siteName field was absent
	Files    []UploadedFile // In the order the parts were received
}

// Validate checks that the site name and files are present and that the
// site name only holds lowercase letters, digits and hyphens.
func (r *DeployRequest) Validate() error {
	if r == nil || r.SiteName == "" || len(r.Files) == 0 {
		return &ValidationError{Field: "siteName/files", Message: MessageMissingFields}
	}
	if !siteNamePattern.MatchString(r.SiteName) {
		return &ValidationError{Field: "siteName", Message: MessageInvalidSiteName}
	}
	return nil
}

// TotalSize returns the sum of all file content sizes
func (r *DeployRequest) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += int64(len(f.Content))
	}
	return total
}

// SiteRecord is a site created by the hosting provider
type SiteRecord struct {
	SiteID string
	Name   string
	URL    string
}

// DeployReceipt is the hosting provider's confirmation of a deploy
type DeployReceipt struct {
	DeployID string
	State    string
}

// DeployResult is the JSON payload returned to the uploader
type DeployResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message"`
}
