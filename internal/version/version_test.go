package version

import "testing"

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	_ = GitCommit
	_ = BuildDate
}

func TestPlainStripsColor(t *testing.T) {
	got := stripANSI("\x1b[33;1m0\x1b[0m.\x1b[32;1m1\x1b[0m.\x1b[34;1m0\x1b[0m-dev")
	if got != "0.1.0-dev" {
		t.Errorf("stripANSI = %q, want %q", got, "0.1.0-dev")
	}
}

func TestPlainOnUncolored(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "1.2.3"
	if Plain() != "1.2.3" {
		t.Errorf("Plain() = %q", Plain())
	}
}
