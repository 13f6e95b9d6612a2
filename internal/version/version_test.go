package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestGet(t *testing.T) {
	orig := Get()
	defer func() {
		Version, GitCommit, BuildDate = orig.Version, orig.GitCommit, orig.BuildDate
	}()

	Version, GitCommit, BuildDate = "1.2.3", "abc123", "2026-01-15T10:30:00Z"
	got := Get()
	if got.Version != "1.2.3" || got.GitCommit != "abc123" || got.BuildDate != "2026-01-15T10:30:00Z" {
		t.Fatalf("Get() = %+v", got)
	}
}

func TestColored(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = true

	tests := []struct {
		in, want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"2.10.4", "2.10.4"},
		{"1.0.0+build7", "1.0.0+build7"},
		{"snapshot", "snapshot"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(); got != tt.want {
			t.Fatalf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
