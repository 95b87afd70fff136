// Package constant defines immutable application-level identifiers and build metadata.
package constant

const (
	// Gurbani is the canonical application identifier used for filesystem paths and CLI branding.
	Gurbani = "gurbani"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, injected at link time via -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
