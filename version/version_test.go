package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func withBuild(t *testing.T, version, commit, built string, info *debug.BuildInfo) {
	t.Helper()
	origVersion, origCommit, origBuilt, origRead := Version, Commit, BuildTime, readBuildInfo
	t.Cleanup(func() {
		Version, Commit, BuildTime, readBuildInfo = origVersion, origCommit, origBuilt, origRead
	})
	Version, Commit, BuildTime = version, commit, built
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func vcs(revision, modified, at string) *debug.BuildInfo {
	return &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: revision},
			{Key: "vcs.modified", Value: modified},
			{Key: "vcs.time", Value: at},
		},
	}
}

func TestShortDev(t *testing.T) {
	withBuild(t, "dev", "", "", nil)
	if got := Short(); got != "dev" {
		t.Errorf("expected 'dev', got %q", got)
	}
}

func TestShortLdflagsWin(t *testing.T) {
	withBuild(t, "1.0.0", "abc1234", "", vcs("fedcba9876543210", "false", ""))
	if got := Short(); got != "1.0.0-abc1234" {
		t.Errorf("expected '1.0.0-abc1234', got %q", got)
	}
}

func TestShortFromVCS(t *testing.T) {
	withBuild(t, "1.0.0", "", "", vcs("fedcba9876543210", "true", ""))
	if got := Short(); got != "1.0.0-fedcba9-dirty" {
		t.Errorf("expected '1.0.0-fedcba9-dirty', got %q", got)
	}
}

func TestBanner(t *testing.T) {
	withBuild(t, "1.4.0", "abc1234", "2024-01-15T10:30:00Z", vcs("", "false", ""))
	want := "sgacorrect 1.4.0-abc1234 built 2024-01-15T10:30:00Z go1.26.0"
	if got := Banner("sgacorrect"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBannerVCSTime(t *testing.T) {
	withBuild(t, "1.4.0", "", "", vcs("0123456789", "false", "2025-03-01T08:00:00Z"))
	b := Banner("sgacorrect")
	if !strings.Contains(b, "1.4.0-0123456 built 2025-03-01T08:00:00Z") {
		t.Errorf("expected VCS commit and time in banner, got %q", b)
	}
}

func TestBannerWithoutBuildInfo(t *testing.T) {
	withBuild(t, "dev", "", "", nil)
	want := "sgacorrect dev " + runtime.Version()
	if got := Banner("sgacorrect"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
