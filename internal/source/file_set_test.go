package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.py", []byte("x = 1"), 0)
	id2 := fs.Add("main.py", []byte("x = 'a'"), 0)
	if id1 == id2 {
		t.Fatalf("expected a new FileID for the second Add")
	}

	latest, ok := fs.GetLatest("main.py")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "x = 1" {
		t.Errorf("first version content = %q", got)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.py", []byte("a\nb\n"))
	file := fs.Get(id)

	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
	}
	for i := range want {
		if file.LineIdx[i] != want[i] {
			t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestResolveAndPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("f.py", []byte("def f(x):\n    return x\n"))

	// "return" starts at byte 14
	span := Span{File: id, Start: 14, End: 20}
	start, end := fs.Resolve(span)
	if start != (LineCol{Line: 2, Col: 5}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 11}) {
		t.Errorf("end = %+v", end)
	}
	if got := fs.Position(span); got != "f.py:2:5" {
		t.Errorf("Position = %q", got)
	}
	if got := fs.Text(span); got != "return" {
		t.Errorf("Text = %q", got)
	}
}

func TestResolveAtNewline(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("f.py", []byte("ab\ncd"))
	start, _ := fs.Resolve(Span{File: id, Start: 2, End: 2})
	if start != (LineCol{Line: 1, Col: 3}) {
		t.Errorf("newline byte resolved to %+v", start)
	}
	start, _ = fs.Resolve(Span{File: id, Start: 3, End: 3})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("first byte of second line resolved to %+v", start)
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.py")
	content := []byte{0xEF, 0xBB, 0xBF, 'x', '=', '1', '\r', '\n'}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "x=1\n" {
		t.Errorf("content = %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", file.Flags)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("f.py", []byte("one\ntwo\nthree")))
	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for line, want := range cases {
		if got := file.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "other", "file.py")

	got, err := RelativePath(target, filepath.Join(tmp, "base"))
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("cross-file Cover changed span: %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Error("cover must contain its inputs")
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to the empty string")
	}
	a := in.Intern("x")
	if b := in.Intern("x"); a != b {
		t.Fatalf("same string interned twice: %d != %d", a, b)
	}
	if in.Intern("y") == a {
		t.Fatal("different strings share an ID")
	}
	if in.Len() != 3 {
		t.Errorf("Len = %d", in.Len())
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Error("unknown ID resolved")
	}
}
