// Package version reports the yearcal build version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set through -ldflags "-X github.com/Sumatoshi-tech/yearcal/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = ""
)

// Current returns Version, falling back to the module version recorded in
// the binary when built with go install.
func Current() string {
	if Version != "dev" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return Version
}

// String formats the full version line.
func String() string {
	s := fmt.Sprintf("yearcal %s (commit %s)", Current(), Commit)
	if Date != "" {
		s += " built " + Date
	}

	return s
}
