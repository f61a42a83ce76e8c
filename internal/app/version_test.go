package app

import (
	"strings"
	"testing"
)

func TestBuildVersion_LinkerValuesWin(t *testing.T) {
	oldV, oldC, oldB := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })

	Version, Commit, BuildTime = "v1.2.0", "0123456789abcdef", "2024-09-01T00:00:00Z"

	if got, want := BuildVersion(), "v1.2.0 (commit 0123456789ab, built 2024-09-01T00:00:00Z)"; got != want {
		t.Errorf("BuildVersion() = %q, want %q", got, want)
	}
}

func TestBuildVersion_Defaults(t *testing.T) {
	got := BuildVersion()
	if !strings.HasPrefix(got, Version+" (commit ") {
		t.Errorf("BuildVersion() = %q, want prefix %q", got, Version+" (commit ")
	}
}
