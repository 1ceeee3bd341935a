package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[parse]
jobs = 4
copy = true

[output]
format = "json"

[cache]
enabled = true
dir = ".cache"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Parse.Jobs != 4 || !cfg.Parse.Copy {
		t.Errorf("parse = %+v", cfg.Parse)
	}
	if cfg.Parse.Encoding != "auto" || cfg.Output.Color != "auto" || cfg.Output.MaxDiagnostics != 100 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("format = %q", cfg.Output.Format)
	}
	if want := filepath.Join(dir, ".cache"); cfg.Cache.Dir != want {
		t.Errorf("cache dir = %q, want %q", cfg.Cache.Dir, want)
	}
	if cfg.Path != path {
		t.Errorf("path = %q", cfg.Path)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[parse]\nthreads = 2\n", "unknown keys: parse.threads"},
		{"bad enum", "[output]\ncolor = \"sometimes\"\n", "[output].color must be one of"},
		{"negative", "[parse]\njobs = -1\n", "[parse].jobs"},
		{"syntax", "[parse\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[parse]\njobs = 2\n")
	nested := filepath.Join(root, "maps", "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover("", nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Parse.Jobs != 2 {
		t.Fatalf("jobs = %d, want 2", cfg.Parse.Jobs)
	}
}

func TestDiscoverExplicitMissing(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope.toml"), "")
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}
