package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"localopt/internal/localopt"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[rules]
approx = false

[approx]
max_correction = 8

[cache]
dir = "cache"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.Options()
	want := localopt.AllRules &^ localopt.RuleApprox
	if opts.Rules != want {
		t.Fatalf("rules = %s, want %s", opts.Rules, want)
	}
	if opts.MaxCorrection != 8 {
		t.Fatalf("max_correction = %d", opts.MaxCorrection)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("cache.enabled should default to true")
	}
	if cfg.Cache.Dir != filepath.Join(dir, "cache") {
		t.Fatalf("cache dir = %q", cfg.Cache.Dir)
	}
	if cfg.Path != path {
		t.Fatalf("path = %q", cfg.Path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[rules\n", "failed to parse TOML"},
		{"unknown_key", "[rules]\nfold = true\n", "unknown keys: rules.fold"},
		{"negative_jobs", "[driver]\njobs = -1\n", "[driver].jobs"},
		{"empty_dir", "[cache]\ndir = \" \"\n", "[cache].dir is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[rules]\nsdiv = false\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.EnabledRules()&localopt.RuleSDiv != 0 {
		t.Fatal("sdiv should be disabled by the parent config")
	}
	if filepath.Dir(cfg.Path) != root {
		t.Fatalf("found %q", cfg.Path)
	}
}

func TestDiscoverDefault(t *testing.T) {
	path, ok, err := Find(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		// A localopt.toml above the temp dir would make this test meaningless.
		t.Skipf("found unrelated config at %s", path)
	}
	cfg := Default()
	if cfg.Options() != localopt.DefaultOptions() {
		t.Fatalf("default options = %+v", cfg.Options())
	}
}
