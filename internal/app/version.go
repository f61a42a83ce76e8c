package app

import (
	"fmt"
	"runtime/debug"
)

// Build metadata, overridable at link time:
//
//	go build -ldflags "-X github.com/heartmarshall/hengshui-vocab/internal/app.Version=v1.2.0" ./cmd/vocabctl
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// BuildVersion describes the running binary. Commit and build time not set
// through ldflags are taken from the VCS stamp the go command embeds.
func BuildVersion() string {
	commit, built := Commit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "":
				commit = s.Value
			case s.Key == "vcs.time" && built == "":
				built = s.Value
			}
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, commit, built)
}
