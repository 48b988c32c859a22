// Package version exposes build metadata injected at link time.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Short returns just the version number.
func Short() string {
	return Version
}

// Info returns the full version information.
func Info() string {
	return fmt.Sprintf("t3c %s\ncommit: %s\nbuilt: %s\ngo: %s", Version, Commit, BuildTime, runtime.Version())
}
