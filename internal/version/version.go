// Package version exposes build metadata stamped at link time via ldflags.
package version

var (
	// Version is the release tag, or "dev" for untagged builds.
	Version = "dev"
	// Commit is the short git revision.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
