package buildconfig

import "runtime"

// Build-time variables injected via ldflags:
//
//	-X github.com/abolfazl2800140/Gym-handler-Desktop/internal/buildconfig.version=v1.2.0
var (
	version = "dev"
	commit  = "unknown"
)

// Version returns the build version
func Version() string {
	return version
}

// Commit returns the git commit hash
func Commit() string {
	return commit
}

// VersionInfo is reported by /health and the gymchat banner.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
		"go":      runtime.Version(),
	}
}
