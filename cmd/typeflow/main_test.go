package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"typeflow/internal/diagfmt"
)

// runCLI executes a fresh command tree and captures both streams.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd, cleanup := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := cmd.Execute()
	cleanup()
	return stdout.String(), stderr.String(), err
}

func decodeReports(t *testing.T, data string) diagfmt.ReportsOutput {
	t.Helper()
	var out diagfmt.ReportsOutput
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		t.Fatalf("decode reports: %v\n%s", err, data)
	}
	return out
}

func TestAnalyzeText(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "m.py", "def f(x):\n    return x\n\nres = f(1)\n")

	stdout, stderr, err := runCLI(t, "--no-config", "analyze", src)
	if err != nil {
		t.Fatalf("analyze: %v\nstderr: %s", err, stderr)
	}
	for _, want := range []string{"ok (strict", "module", "res", "{int}", "function .f(x)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout misses %q:\n%s", want, stdout)
		}
	}
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestAnalyzeDirectoryJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "a = 1\n")
	writeFile(t, dir, "pkg/b.py", "b = 'x'\n")
	writeFile(t, dir, "notes.txt", "ignored\n")

	stdout, _, err := runCLI(t, "--no-config", "analyze", "--format", "json", "--jobs", "2", dir)
	if err != nil {
		t.Fatal(err)
	}
	out := decodeReports(t, stdout)
	if out.Count != 2 || out.Failed != 0 {
		t.Fatalf("count=%d failed=%d", out.Count, out.Failed)
	}
	if filepath.Base(out.Reports[0].File) != "a.py" || filepath.Base(out.Reports[1].File) != "b.py" {
		t.Fatalf("unexpected order: %s, %s", out.Reports[0].File, out.Reports[1].File)
	}
}

func TestAnalyzeFailureSetsExitStatus(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "bad.py", "x = y\n")

	stdout, stderr, err := runCLI(t, "--no-config", "analyze", src)
	if err != errFailed {
		t.Fatalf("expected errFailed, got %v", err)
	}
	if !strings.Contains(stderr, "ERROR") {
		t.Fatalf("diagnostic not printed:\n%s", stderr)
	}
	if !strings.Contains(stdout, "failed") {
		t.Fatalf("report must mark the file failed:\n%s", stdout)
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	stdout, stderr, err := runCLI(t, "--no-config", "analyze", "--format", "json", filepath.Join(t.TempDir(), "missing.py"))
	if err != errFailed {
		t.Fatalf("expected errFailed, got %v", err)
	}
	if strings.Contains(stderr, "error:") {
		t.Fatalf("load failure must stay a diagnostic:\n%s", stderr)
	}
	out := decodeReports(t, stdout)
	if out.Failed != 1 || len(out.Reports[0].Diagnostics) != 1 || out.Reports[0].Diagnostics[0].Code != "IO4001" {
		t.Fatalf("unexpected report: %+v", out.Reports[0])
	}
}

func TestAnalyzeSarif(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "bad.py", "x = y\n")
	stdout, _, err := runCLI(t, "--no-config", "analyze", "--format", "sarif", src)
	if err != errFailed {
		t.Fatalf("expected errFailed, got %v", err)
	}
	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(stdout), &log); err != nil {
		t.Fatal(err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 || len(log.Runs[0].Results) == 0 {
		t.Fatalf("unexpected sarif: %s", stdout)
	}
}

func TestAnalyzeCacheAndTimings(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "m.py", "a = 1\n")
	cacheDir := filepath.Join(dir, "cache")

	first, _, err := runCLI(t, "--no-config", "analyze", "--format", "json", "--cache-dir", cacheDir, src)
	if err != nil {
		t.Fatal(err)
	}
	second, stderr, err := runCLI(t, "--no-config", "--timings", "analyze", "--format", "json", "--cache-dir", cacheDir, src)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("cached report differs:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(stderr, "timings:") || !strings.Contains(stderr, "total") {
		t.Fatalf("missing timings summary:\n%s", stderr)
	}
}

func TestAnalyzeRejectsBadFlags(t *testing.T) {
	src := writeFile(t, t.TempDir(), "m.py", "a = 1\n")
	cases := [][]string{
		{"analyze", "--format", "yaml", src},
		{"analyze", "--undefined", "loose", src},
		{"analyze", "--max-call-depth", "0", src},
		{"analyze", "--ui", "maybe", src},
		{"--color", "purple", "analyze", src},
	}
	for _, args := range cases {
		t.Run(strings.Join(args[:2], " "), func(t *testing.T) {
			_, _, err := runCLI(t, append([]string{"--no-config"}, args...)...)
			if err == nil || err == errFailed {
				t.Fatalf("expected a usage error, got %v", err)
			}
		})
	}
}

func TestTokenizeParseScopes(t *testing.T) {
	src := writeFile(t, t.TempDir(), "m.py", "def f(a):\n    return a\n")

	stdout, _, err := runCLI(t, "--no-config", "tokenize", "--format", "json", src)
	if err != nil {
		t.Fatal(err)
	}
	var tokens []diagfmt.TokenOutput
	if err := json.Unmarshal([]byte(stdout), &tokens); err != nil {
		t.Fatal(err)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != "EOF" {
		t.Fatalf("token stream must end with EOF: %+v", tokens)
	}

	stdout, _, err = runCLI(t, "--no-config", "parse", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "FunctionDef f") {
		t.Fatalf("parse output:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, "--no-config", "scopes", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "function .f [def:f:1:1] params(a) refs: a, <return> at 1:1-2:13") {
		t.Fatalf("scopes output:\n%s", stdout)
	}
}

func TestScopesUnsupportedConstruct(t *testing.T) {
	src := writeFile(t, t.TempDir(), "m.py", "class C:\n    pass\n")
	_, stderr, err := runCLI(t, "--no-config", "scopes", src)
	if err != errFailed {
		t.Fatalf("expected errFailed, got %v", err)
	}
	if !strings.Contains(stderr, "ERROR") {
		t.Fatalf("stderr:\n%s", stderr)
	}

	_, stderr, err = runCLI(t, "--no-config", "scopes", "--format", "json", src)
	if err != errFailed {
		t.Fatalf("expected errFailed, got %v", err)
	}
	var diags diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(stderr), &diags); err != nil {
		t.Fatalf("stderr is not JSON: %v\n%s", err, stderr)
	}
	if diags.Count != 1 || diags.Diagnostics[0].Severity != "ERROR" || diags.Diagnostics[0].Location == nil {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := runCLI(t, "--no-config", "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var info struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatal(err)
	}
	if info.Version == "" {
		t.Fatal("empty version")
	}
}
