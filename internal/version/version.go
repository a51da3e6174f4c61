// Package version carries build metadata, overridable through -ldflags.
package version

import "runtime"

var (
	Version   = "0.0.1"           // ex: 0.1.0
	Commit    = "none"            // ex: abcd123
	GoVersion = runtime.Version() // go version
)
