// Package version reports how the sparkle binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags "-X github.com/conneroisu/sparkle/internal/version.Version=v1.2.3".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo is the version record printed by `sparkle version` and stamped
// into build manifests.
type BuildInfo struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"git_commit" yaml:"git_commit"`
	BuildTime time.Time `json:"build_time" yaml:"build_time"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	Platform  string    `json:"platform" yaml:"platform"`
	Dirty     bool      `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// Get assembles BuildInfo from ldflags, falling back to the VCS settings
// the Go toolchain embeds.
func Get() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: parseTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime.IsZero() {
				info.BuildTime = parseTime(s.Value)
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if info.Version == "dev" && len(info.GitCommit) >= 7 && info.GitCommit != "unknown" {
		info.Version = "dev-" + info.GitCommit[:7]
	}
	return info
}

// Short is the one-line form, e.g. "v1.2.0 (abc1234)".
func (b BuildInfo) Short() string {
	if b.GitCommit == "unknown" || len(b.GitCommit) < 7 || strings.HasPrefix(b.Version, "dev-") {
		return b.Version
	}
	return fmt.Sprintf("%s (%s)", b.Version, b.GitCommit[:7])
}

// Detailed lists every known field, one per line.
func (b BuildInfo) Detailed() string {
	lines := []string{"Version: " + b.Version}
	if b.GitCommit != "unknown" {
		commit := "Commit: " + b.GitCommit
		if b.Dirty {
			commit += " (dirty)"
		}
		lines = append(lines, commit)
	}
	if !b.BuildTime.IsZero() {
		lines = append(lines, "Built: "+b.BuildTime.Format(time.RFC3339))
	}
	lines = append(lines, "Go: "+b.GoVersion, "Platform: "+b.Platform)
	return strings.Join(lines, "\n")
}

// IsRelease reports whether the binary carries a tagged version.
func (b BuildInfo) IsRelease() bool {
	return b.Version != "dev" && !strings.HasPrefix(b.Version, "dev-")
}

func parseTime(s string) time.Time {
	if s == "" || s == "unknown" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
