// Package version holds the build version of the validator.
package version

import "runtime/debug"

// VERSION is set at build time with
// -ldflags "-X github.com/JiscSD/ed318-validator/version.VERSION=v1.2.3".
var VERSION = ""

// AppVersion returns VERSION, falling back to the main module version recorded
// by the Go toolchain.
func AppVersion() string {
	if VERSION != "" {
		return VERSION
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// UserAgent identifies the validator in outgoing HTTP requests.
func UserAgent() string {
	return "ed318-validator/" + AppVersion()
}
