package version

import "runtime/debug"

// Version is set at build time via
// -ldflags "-X github.com/neox5/emitbox/internal/version.Version=v1.2.3".
var Version = "dev"

// String returns the build version, falling back to module build info.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
