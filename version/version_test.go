package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	prev := Version
	defer func() { Version = prev }()

	Version = "dev"
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("GetFullVersion failed: expected %q, got %q", "dev", got)
	}

	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-01-02"
	expected := "1.2.0 (commit abc123, built 2026-01-02)"
	if got := GetFullVersion(); got != expected {
		t.Errorf("GetFullVersion failed: expected %q, got %q", expected, got)
	}
}
