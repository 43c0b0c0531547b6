package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is a rejected request that the uploader can fix
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// ConfigError means the server lacks required configuration
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("server configuration missing: %s", e.Field)
}

// ConflictError means the hosting provider already has a site with the name
type ConflictError struct {
	SiteName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("site name %q is already taken", e.SiteName)
}

// AuthError means the provider rejected the access credential
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("hosting provider authentication failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("hosting provider authentication failed: %s", e.Message)
}

// UpstreamError is any other failed or malformed provider response
type UpstreamError struct {
	Operation  string
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("hosting provider %s failed (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("hosting provider %s failed: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("hosting provider %s failed: %s", e.Operation, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ParseError means the request body could not be decoded
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse request body: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// TooLargeError means the request body exceeded the configured limit
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// ErrorResult maps an error from the deploy pipeline to an HTTP status and
// the payload shown to the uploader. Internal details never reach the
// payload; only validation and conflict messages are user-facing.
func ErrorResult(err error) (int, *DeployResult) {
	var (
		validationErr *ValidationError
		conflictErr   *ConflictError
		configErr     *ConfigError
		tooLargeErr   *TooLargeError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, failure(validationErr.Message)
	case errors.As(err, &conflictErr):
		return http.StatusBadRequest, failure(MessageSiteNameTaken)
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge, failure(MessageTooLarge)
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, failure(MessageMisconfigured)
	default:
		return http.StatusInternalServerError, failure(MessageInternalError)
	}
}

func failure(msg string) *DeployResult {
	return &DeployResult{Success: false, Message: msg}
}
