package version

import "fmt"

// Set at build time with -ldflags "-X github.com/oshokin/door-alarm/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Short returns the version alone.
func Short() string {
	return Version
}

// Full returns the version with its commit and build time.
func Full() string {
	return fmt.Sprintf("door-alarm %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// Fields returns the build metadata as logger key-value pairs.
func Fields() []any {
	return []any{"version", Version, "commit", Commit, "build_time", BuildTime}
}
