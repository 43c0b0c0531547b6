package types

// Version is the application version, overridden at build time via -ldflags
var Version = "dev"

// ServiceName is reported by the health endpoint
const ServiceName = "sitedrop"

// AccessToken is a hosting provider credential. Values of this type are
// redacted from log output.
type AccessToken string

// String returns the raw token
func (t AccessToken) String() string {
	return string(t)
}
