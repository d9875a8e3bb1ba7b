package version

import (
	"runtime/debug"
	"testing"
)

func TestMergePrefersLinkerValues(t *testing.T) {
	t.Parallel()

	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	got := merge(Info{Version: "v1.2.0", Commit: "feedface"}, "v0.0.1", settings)
	if got.Version != "v1.2.0" || got.Commit != "feedface" {
		t.Fatalf("linker values overridden: %+v", got)
	}
	if got.BuildTime != "2026-01-02T03:04:05Z" || !got.Modified {
		t.Fatalf("vcs settings not applied: %+v", got)
	}

	got = merge(Info{}, "(devel)", settings)
	if got.Version != "" {
		t.Fatalf("devel module version should be ignored, got %q", got.Version)
	}
	if got.String() != " (0123456789ab-dirty)" {
		t.Fatalf("unexpected string %q", got.String())
	}
}

func TestInfoString(t *testing.T) {
	t.Parallel()

	if s := (Info{Version: "v1"}).String(); s != "v1" {
		t.Fatalf("got %q", s)
	}
	if s := (Info{Version: "v1", Commit: "abc"}).String(); s != "v1 (abc)" {
		t.Fatalf("got %q", s)
	}
	if Resolve().Version == "" {
		t.Fatal("Resolve must always produce a version")
	}
}
