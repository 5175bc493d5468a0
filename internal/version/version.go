// Package version reports build information embedded by the Go toolchain.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Version is set at link time with -ldflags "-X .../internal/version.Version=v1.2.3".
// When empty the main module version from the build info is used.
var Version = ""

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	Compiler   string `json:"compiler"`
	IsModified bool   `json:"is_modified"`
	ModulePath string `json:"module_path,omitempty"`
	ModuleSum  string `json:"module_sum,omitempty"`
}

// GetBuildInfo collects version and VCS details from the binary.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   "v0.0.0-dev",
		GitCommit: "unknown",
		BuildDate: "unknown",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Compiler:  runtime.Compiler,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.ModulePath = bi.Main.Path
		info.ModuleSum = bi.Main.Sum
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.GitCommit = s.Value
			case "vcs.time":
				info.BuildDate = s.Value
			case "vcs.modified":
				info.IsModified = s.Value == "true"
			}
		}
	}
	if Version != "" {
		info.Version = Version
	}
	return info
}

// GetVersion returns the version string, always prefixed with "v".
func GetVersion() string {
	v := GetBuildInfo().Version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// GetShortVersion returns the version without any build metadata.
func GetShortVersion() string {
	v, _, _ := strings.Cut(GetVersion(), "+")
	return v
}

// GetVersionWithCommit returns the version followed by the short commit hash.
func GetVersionWithCommit() string {
	info := GetBuildInfo()
	commit := info.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", GetVersion(), commit)
}

// GetDetailedVersion returns a multi-line description of the build.
func GetDetailedVersion() string {
	info := GetBuildInfo()
	return fmt.Sprintf("tabdown %s\ncommit: %s\nbuilt: %s\ngo: %s %s",
		GetVersion(), info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
}

// GetJSONVersion returns the build info as indented JSON.
func GetJSONVersion() string {
	b, err := json.MarshalIndent(GetBuildInfo(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// IsDevelopment reports whether the binary was built from a working tree
// rather than a tagged module version.
func IsDevelopment() bool {
	info := GetBuildInfo()
	return strings.Contains(info.Version, "dev") || info.IsModified
}

// IsRelease is the opposite of IsDevelopment.
func IsRelease() bool {
	return !IsDevelopment()
}
