package version

import (
	"strings"
	"testing"
)

func TestGetTrimsAndDefaults(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "  "
	GitCommit = " abc123 \n"
	info := Get()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		plain   string
	}{
		{"0.1.0-dev", false, "0.1.0-dev"},
		{"1.2.3", true, "1.2.3"},
		{"1.2.3-rc.1+build.123", true, "1.2.3-rc.1+build.123"},
		{"dev", true, "dev"},
	}
	for _, tt := range tests {
		got := Colored(tt.in, tt.enabled)
		if stripANSI(got) != tt.plain {
			t.Errorf("Colored(%q) = %q, stripped %q", tt.in, got, stripANSI(got))
		}
		painted := strings.Contains(got, "\x1b[")
		wantPaint := tt.enabled && tt.in != "dev"
		if painted != wantPaint {
			t.Errorf("Colored(%q, %v) painted = %v", tt.in, tt.enabled, painted)
		}
	}
}

// stripANSI убирает последовательности ESC[...m
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
