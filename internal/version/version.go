// Package version exposes the build version string, overridden at link
// time via -ldflags.
package version

var Version = "dev"
