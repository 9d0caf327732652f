// Package version carries the build metadata injected with -ldflags -X.
package version
