package diag

import (
	"strings"
	"testing"

	"typeflow/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	sp := source.Span{}
	if !b.Add(NewError(AnaNameError, sp, "a")) || !b.Add(NewError(AnaNameError, sp, "b")) {
		t.Fatal("first two diagnostics must be accepted")
	}
	if b.Add(NewError(AnaNameError, sp, "c")) {
		t.Fatal("third diagnostic must be rejected")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d", b.Len())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, AnaUndefined, source.Span{Start: 10, End: 12}, "x"))
	b.Add(New(SevError, AnaNameError, source.Span{Start: 1, End: 2}, "y"))
	b.Add(New(SevError, AnaNameError, source.Span{Start: 1, End: 2}, "y"))
	b.Add(New(SevInfo, AnaReentrantCall, source.Span{Start: 1, End: 2}, "z"))
	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items after dedup", len(items))
	}
	if items[0].Code != AnaNameError || items[1].Code != AnaReentrantCall || items[2].Code != AnaUndefined {
		t.Fatalf("unexpected order: %v %v %v", items[0].Code, items[1].Code, items[2].Code)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("expected errors and warnings")
	}
	b.Filter(SevError)
	if b.Len() != 1 {
		t.Fatalf("Filter left %d items", b.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:    "LEX1001",
		SynExpectColon:    "SYN2004",
		AnaUnsupported:    "SEM3001",
		AnaRecursionDepth: "SEM3004",
		IOLoadFileError:   "IO4001",
		CfgInvalid:        "CFG5001",
		ObsTimings:        "OBS6001",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(3999).Title() != "Unknown error" {
		t.Error("unregistered code should fall back to the unknown title")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: b})
	rb := ReportError(r, AnaUnsupported, source.Span{End: 3}, "class").
		WithNote(source.Span{Start: 4, End: 5}, "here")
	rb.Emit()
	rb.Emit()
	ReportError(r, AnaUnsupported, source.Span{End: 3}, "class").Emit()

	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
	if len(b.Items()[0].Notes) != 1 {
		t.Fatal("note lost")
	}
	if r.Suppressed() != 1 {
		t.Fatalf("Suppressed = %d, want 1", r.Suppressed())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.py", []byte("x = 1\ny = z\n"))
	d := NewError(AnaNameError, source.Span{File: id, Start: 10, End: 11}, "name 'z' is not defined").
		WithNote(source.Span{File: id, Start: 0, End: 1}, "scope root")
	got := FormatShort(fs, []Diagnostic{d})
	want := "m.py:2:5: ERROR SEM3002: name 'z' is not defined\n  note: m.py:1:1: scope root\n"
	if got != want {
		t.Fatalf("FormatShort:\n%s\nwant:\n%s", got, want)
	}
	if !strings.HasPrefix(FormatShort(nil, []Diagnostic{d}), "0:10-11") {
		t.Fatal("nil file set must fall back to raw span")
	}
}

func TestParseSeverity(t *testing.T) {
	for _, sev := range []Severity{SevInfo, SevWarning, SevError} {
		got, ok := ParseSeverity(strings.ToLower(sev.String()))
		if !ok || got != sev {
			t.Fatalf("ParseSeverity(%q) = %v, %v", sev.String(), got, ok)
		}
	}
	if _, ok := ParseSeverity("fatal"); ok {
		t.Fatal("unknown severity must not parse")
	}
	if Severity(9).String() != "UNKNOWN" {
		t.Fatal("out of range severity")
	}
}
