package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"typeflow/internal/diag"
	"typeflow/internal/driver"
	"typeflow/internal/source"
)

func analyze(t *testing.T, name, src string) *driver.AnalyzeResult {
	t.Helper()
	res, err := driver.AnalyzeSource(context.Background(), name, []byte(src), driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestPrettyCaret(t *testing.T) {
	res := analyze(t, "name.py", "x = y\n")
	var buf bytes.Buffer
	if err := Pretty(&buf, res.Bag, res.FileSet, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two snippet lines, got:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[0], "name.py:1:5: ERROR SEM3002: ") {
		t.Fatalf("header = %q", lines[0])
	}
	want := []string{"1 | x = y", "  |     ^"}
	if diff := cmp.Diff(want, lines[1:]); diff != "" {
		t.Fatalf("snippet (-want +got):\n%s", diff)
	}
}

func TestPrettyCaretCountsDisplayWidth(t *testing.T) {
	res := analyze(t, "wide.py", "s = '日本' + z\n")
	var buf bytes.Buffer
	if err := Pretty(&buf, res.Bag, res.FileSet, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if want := "  | " + strings.Repeat(" ", 13) + "^"; lines[2] != want {
		t.Fatalf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "missing.py: no such file"))
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "ERROR IO4001: missing.py: no such file\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONDiagnostics(t *testing.T) {
	res := analyze(t, "name.py", "x = y\n")
	res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "other"))
	out := BuildDiagnosticsOutput(res.Bag, res.FileSet, JSONOpts{IncludePositions: true})
	if out.Count != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	want := &LocationJSON{File: "name.py", StartByte: 4, EndByte: 5, StartLine: 1, StartCol: 5, EndLine: 1, EndCol: 6}
	if diff := cmp.Diff(want, out.Diagnostics[0].Location); diff != "" {
		t.Fatalf("location (-want +got):\n%s", diff)
	}
	if out.Diagnostics[1].Location != nil {
		t.Fatal("zero span must not produce a location")
	}

	limited := BuildDiagnosticsOutput(res.Bag, res.FileSet, JSONOpts{Max: 1})
	if limited.Count != 1 || !limited.Truncated {
		t.Fatalf("max 1 kept %d, truncated %v", limited.Count, limited.Truncated)
	}
}

func TestSarif(t *testing.T) {
	res := analyze(t, "name.py", "x = y\n")
	var buf bytes.Buffer
	if err := Sarif(&buf, res.Bag, res.FileSet, SarifRunMeta{ToolName: "typeflow", ToolVersion: "test"}); err != nil {
		t.Fatal(err)
	}
	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 || len(log.Runs[0].Results) != 1 {
		t.Fatalf("unexpected SARIF document:\n%s", buf.String())
	}
	r := log.Runs[0].Results[0]
	if r.RuleID != "SEM3002" || r.Level != "error" {
		t.Fatalf("result = %+v", r)
	}
	if reg := r.Locations[0].PhysicalLocation.Region; reg.StartLine != 1 || reg.StartColumn != 5 {
		t.Fatalf("region = %+v", reg)
	}
}

var spanSuffix = regexp.MustCompile(` \(span: [^)]*\)`)

func TestFormatASTPretty(t *testing.T) {
	pr, err := driver.ParseSource("t.py", []byte("def f(x):\n    return x + 1\ny = f(2)\n"), 0)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, pr.Builder, pr.FileID, pr.FileSet); err != nil {
		t.Fatal(err)
	}
	got := spanSuffix.ReplaceAllString(buf.String(), "")
	want := strings.Join([]string{
		"t.py",
		"├─ FunctionDef f(x)",
		"│  └─ Return",
		"│     └─ value: Binary +",
		"│        ├─ left: Name x",
		"│        └─ right: Lit int 1",
		"└─ Assign",
		"   ├─ target: Name y",
		"   └─ value: Call",
		"      ├─ callee: Name f",
		"      └─ arg: Lit int 2",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("AST (-want +got):\n%s", diff)
	}
}

func TestFormatASTTree(t *testing.T) {
	pr, err := driver.ParseSource("t.py", []byte("a = b\n"), 0)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := FormatASTTree(&buf, pr.Builder, pr.FileID, pr.FileSet); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, label := range []string{"t.py", "Assign", "target: Name a", "value: Name b", "/", "\\"} {
		if !strings.Contains(out, label) {
			t.Fatalf("tree is missing %q:\n%s", label, out)
		}
	}
}

func TestFormatScopesPretty(t *testing.T) {
	res := analyze(t, "s.py", "def f(a):\n    global g\n    g = lambda b: b\n    return a\n")
	var buf bytes.Buffer
	if err := FormatScopesPretty(&buf, res.Table, nil); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"module <module> refs: f, g",
		"└─ function .f [def:f:1:1] params(a) refs: a, <return> global: g",
		"   └─ lambda .f.lambda:3:9 [lambda:3:9] params(b) refs: b, <return>",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("scopes (-want +got):\n%s", diff)
	}
}

func TestReportText(t *testing.T) {
	res := analyze(t, "example.py", "def f(x):\n    return x\na = f(1)\nb = f('s')\n")
	var buf bytes.Buffer
	if err := ReportText(&buf, []*driver.Report{driver.BuildReport(res)}, ReportTextOpts{}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"example.py: ok (strict, 2 analyses)",
		"module",
		"  f = {func f}",
		"  a = {int}",
		"  b = {str}",
		"function .f(x) [def:f:1:1]",
		"  (int)",
		"    x        = {int}",
		"    <return> = {int}",
		"  (str)",
		"    x        = {str}",
		"    <return> = {str}",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("report (-want +got):\n%s", diff)
	}
}

func TestReportTextFailed(t *testing.T) {
	res := analyze(t, "bad.py", "import os\n")
	var buf bytes.Buffer
	if err := ReportText(&buf, []*driver.Report{driver.BuildReport(res)}, ReportTextOpts{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "bad.py: failed (strict, 0 analyses)\n") || !strings.Contains(out, "SEM3001") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestReportEncodingsAgree(t *testing.T) {
	res := analyze(t, "example.py", "def f(x):\n    return x\na = f(1)\n")
	reps := []*driver.Report{driver.BuildReport(res)}

	var mp bytes.Buffer
	if err := ReportMsgpack(&mp, reps); err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeReportMsgpack(&mp)
	if err != nil {
		t.Fatal(err)
	}

	var js bytes.Buffer
	if err := ReportJSON(&js, reps); err != nil {
		t.Fatal(err)
	}
	var fromJSON ReportsOutput
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromJSON, decoded); diff != "" {
		t.Fatalf("msgpack and JSON disagree (-json +msgpack):\n%s", diff)
	}
	if decoded.Count != 1 || decoded.Failed != 0 {
		t.Fatalf("counters = %+v", decoded)
	}
}
