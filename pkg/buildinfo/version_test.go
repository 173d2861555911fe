package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetStamped(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	defer func() { Version, Commit, Date = oldV, oldC, oldD }()
	Version, Commit, Date = "v0.3.0", "0123456789abcdef", "2026-01-02T03:04:05Z"

	got := Get()
	if got.Version != "v0.3.0" || got.Commit != "0123456789abcdef" || got.Date != "2026-01-02T03:04:05Z" {
		t.Errorf("Get() = %+v", got)
	}
	if got.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", got.GoVersion, runtime.Version())
	}
	if got.ShortCommit() != "0123456" {
		t.Errorf("ShortCommit() = %q", got.ShortCommit())
	}
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} v0.3.0 (0123456") {
		t.Errorf("Template() = %q", tmpl)
	}
}

func TestShortCommitShort(t *testing.T) {
	if got := (Info{Commit: "none"}).ShortCommit(); got != "none" {
		t.Errorf("ShortCommit() = %q, want none", got)
	}
}
