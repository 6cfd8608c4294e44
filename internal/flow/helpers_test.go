package flow

import (
	"context"
	"strings"
	"testing"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/lexer"
	"typeflow/internal/parser"
	"typeflow/internal/source"
	"typeflow/internal/symbols"
	"typeflow/internal/types"
)

// analyze прогоняет весь конвейер над src. Ведущий перевод строки срезается,
// чтобы примеры в тестах можно было писать с новой строки.
func analyze(t *testing.T, src string, opts Options) (*Result, error) {
	t.Helper()
	src = strings.TrimLeft(src, "\n")
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(src)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(lexer.New(file, lexer.Options{Reporter: rep}), b, parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("parse errors:\n%s", diag.FormatShort(fs, bag.Items()))
	}
	table, err := symbols.Build(b, res.File, symbols.Options{Files: fs})
	if err != nil {
		return nil, err
	}
	return NewContext(b, table, opts).Run(context.Background(), res.File)
}

func mustAnalyze(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	r, err := analyze(t, src, opts)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	return r
}

func kinds(ks ...types.Kind) types.TypeValue { return types.Of(ks...) }

func expectGlobal(t *testing.T, r *Result, name string, want types.TypeValue) {
	t.Helper()
	got, ok := r.Global(name)
	if !ok {
		t.Fatalf("%s is absent, want %v", name, want)
	}
	if !got.Equal(want) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func expectAbsent(t *testing.T, r *Result, name string) {
	t.Helper()
	if got, ok := r.Global(name); ok {
		t.Fatalf("%s = %v, want absent", name, got)
	}
}

// entryValue returns the value of name in a cache entry of fn.
func entryValue(t *testing.T, r *Result, fn *FunctionValue, e *Entry, name string) (types.TypeValue, bool) {
	t.Helper()
	for _, b := range r.Bindings(fn.Scope, e.Env) {
		if b.Name == name {
			return b.Value, b.Bound
		}
	}
	t.Fatalf("%s has no binding %q", fn.Name, name)
	return types.Empty, false
}

// snapshot renders every cache entry and the module environment as text so
// runs can be compared structurally.
func snapshot(r *Result) map[string][]string {
	out := make(map[string][]string)
	for _, b := range r.Bindings(r.Table.Root, r.Module) {
		out["<module>"] = append(out["<module>"], render(r, b))
	}
	for _, fn := range r.Functions {
		for _, e := range fn.Entries() {
			key := fn.Name + e.Signature.String()
			for _, b := range r.Bindings(fn.Scope, e.Env) {
				out[key] = append(out[key], render(r, b))
			}
		}
	}
	return out
}

func render(r *Result, b Binding) string {
	if !b.Bound {
		return b.Name + "=<absent>"
	}
	return b.Name + "=" + strings.Join(r.Names(b.Value), "|")
}

type recordingReporter struct {
	codes []diag.Code
}

func (r *recordingReporter) Report(code diag.Code, _ diag.Severity, _ source.Span, _ string, _ []diag.Note) {
	r.codes = append(r.codes, code)
}

func (r *recordingReporter) count(code diag.Code) int {
	n := 0
	for _, c := range r.codes {
		if c == code {
			n++
		}
	}
	return n
}

func runWithContext(t *testing.T, ctx context.Context, src string) (*Result, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(src)))
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(lexer.New(file, lexer.Options{}), b, parser.Options{})
	table, err := symbols.Build(b, res.File, symbols.Options{Files: fs})
	if err != nil {
		t.Fatal(err)
	}
	return NewContext(b, table, Options{}).Run(ctx, res.File)
}
