// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Vocagen is the canonical application identifier used for filesystem paths and CLI branding.
	Vocagen = "vocagen"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is sent with every request to the content server.
	UserAgent = Vocagen + "/" + Version

	// DefaultServer is the content server used when server.url is unset.
	DefaultServer = "http://localhost:8002/api"

	// Repository hosts the source code and the releases.
	Repository = "calcoloergosum/vocagen"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
