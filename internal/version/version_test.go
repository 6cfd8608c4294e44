package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if got := Current().GoVersion; got != runtime.Version() {
		t.Errorf("GoVersion = %q", got)
	}
}

func TestColorize(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		plain   string
	}{
		{"1.2.3", true, "1.2.3"},
		{"0.1.0-dev", true, "0.1.0-dev"},
		{"1.0.0-beta.1", true, "1.0.0-beta.1"},
		{"1.2", true, "1.2"},
		{"1.2.3", false, "1.2.3"},
	}
	for _, tt := range tests {
		got := Colorize(tt.in, tt.enabled)
		if stripped := stripANSI(got); stripped != tt.plain {
			t.Errorf("Colorize(%q) stripped = %q, want %q", tt.in, stripped, tt.plain)
		}
		colored := strings.Contains(got, "\x1b[")
		wantColored := tt.enabled && strings.Count(strings.SplitN(tt.in, "-", 2)[0], ".") == 2
		if colored != wantColored {
			t.Errorf("Colorize(%q, %v) colored = %v", tt.in, tt.enabled, colored)
		}
	}
}

func TestBanner(t *testing.T) {
	origCommit, origMessage, origDate := GitCommit, GitMessage, BuildDate
	t.Cleanup(func() { GitCommit, GitMessage, BuildDate = origCommit, origMessage, origDate })

	GitCommit, GitMessage, BuildDate = "", "", ""
	if got := Banner(false); strings.Count(got, "\n") != 1 || !strings.HasPrefix(got, "typeflow "+Version) {
		t.Errorf("minimal banner = %q", got)
	}

	GitCommit = "abc123def456"
	GitMessage = "fix loop merge"
	BuildDate = "2024-01-15T10:30:00Z"
	got := Banner(false)
	for _, want := range []string{"commit: abc123def456 fix loop merge\n", "built:  2024-01-15T10:30:00Z\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("banner %q is missing %q", got, want)
		}
	}
}

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
