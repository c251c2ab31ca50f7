// Package version holds build metadata for repokit.
package version

// Version is overridden at build time with -ldflags "-X ...version.Version=...".
var Version = "development"

// Commit is the git commit the binary was built from.
var Commit = "unknown"

// String returns the version with the commit appended when it is known.
func String() string {
	if Commit == "" || Commit == "unknown" {
		return Version
	}
	return Version + "+" + Commit
}
