package flow

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/symbols"
	"typeflow/internal/types"
)

func TestBranchApproximation(t *testing.T) {
	r := mustAnalyze(t, `
def f(x, y):
    z = x
    z += y
    if x < z:
        w = 1
    else:
        w = "s"
    return w
res = f(1, 2)
`, Options{})
	fn := r.Function(".f")
	if fn == nil || len(fn.Entries()) != 1 {
		t.Fatalf("expected one entry for f")
	}
	e := fn.Entries()[0]
	want := kinds(types.KindInt, types.KindStr)
	if w, ok := entryValue(t, r, fn, e, "w"); !ok || !w.Equal(want) {
		t.Fatalf("w = %v, want %v", w, want)
	}
	if ret, ok := entryValue(t, r, fn, e, symbols.ReturnSlot); !ok || !ret.Equal(want) {
		t.Fatalf("return = %v, want %v", ret, want)
	}
	if z, _ := entryValue(t, r, fn, e, "z"); !z.Equal(kinds(types.KindInt)) {
		t.Fatalf("z = %v", z)
	}
	expectGlobal(t, r, "res", want)
}

func TestMemoizedPolymorphism(t *testing.T) {
	r := mustAnalyze(t, `
def add(a, b):
    c = a + b
    return c
i = add(1, 2)
s = add("x", "y")
j = add(3, 4)
`, Options{})
	fn := r.Function(".add")
	if got := fn.Analyses(); got != 2 {
		t.Fatalf("add analyzed %d times, want 2", got)
	}
	entries := fn.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	ints := kinds(types.KindInt)
	strs := kinds(types.KindStr)
	if c, _ := entryValue(t, r, fn, entries[0], "c"); !c.Equal(ints) {
		t.Errorf("(int, int) entry: c = %v", c)
	}
	if c, _ := entryValue(t, r, fn, entries[1], "c"); !c.Equal(strs) {
		t.Errorf("(str, str) entry: c = %v", c)
	}
	if _, ok := fn.Lookup(types.Signature{ints, ints}); !ok {
		t.Error("missing (int, int) entry")
	}
	expectGlobal(t, r, "i", ints)
	expectGlobal(t, r, "s", strs)
	expectGlobal(t, r, "j", ints)
	if r.Analyses != 2 {
		t.Errorf("run analyses = %d, want 2", r.Analyses)
	}
}

func TestCacheIgnoresCallerChanges(t *testing.T) {
	r := mustAnalyze(t, `
k = 1
def f():
    return k
r1 = f()
k = "s"
r2 = f()
`, Options{})
	expectGlobal(t, r, "r1", kinds(types.KindInt))
	expectGlobal(t, r, "r2", kinds(types.KindInt))
	if r.Function(".f").Analyses() != 1 {
		t.Fatal("second call must hit the cache")
	}
}

func TestLoopSinglePass(t *testing.T) {
	r := mustAnalyze(t, `
cond = True
while cond:
    k = 1
`, Options{})
	expectGlobal(t, r, "k", kinds(types.KindInt))

	// a second abstract iteration would add str to y
	r = mustAnalyze(t, `
x = 1
while x:
    y = x
    x = "s"
`, Options{})
	expectGlobal(t, r, "y", kinds(types.KindInt))
	expectGlobal(t, r, "x", kinds(types.KindInt, types.KindStr))
}

func TestLoopElseIsOtherSide(t *testing.T) {
	r := mustAnalyze(t, `
n = 0
while n:
    v = 1
else:
    v = "done"
for ch in "abc":
    last = ch
else:
    last = 2.5
`, Options{})
	expectGlobal(t, r, "v", kinds(types.KindInt, types.KindStr))
	expectGlobal(t, r, "ch", kinds(types.KindStr))
	expectGlobal(t, r, "last", kinds(types.KindStr, types.KindFloat))
}

func TestForOverNonString(t *testing.T) {
	src := `
for i in 5:
    j = i
`
	_, err := analyze(t, src, Options{})
	var ferr *Error
	if !errors.As(err, &ferr) || ferr.Code != diag.AnaUndefined {
		t.Fatalf("strict: expected AnaUndefined, got %v", err)
	}
	r := mustAnalyze(t, src, Options{Undefined: Lenient})
	expectAbsent(t, r, "i")
	expectAbsent(t, r, "j")
}

func TestLiteralTyping(t *testing.T) {
	r := mustAnalyze(t, `
a = 3
b = "x"
c = True
d = False
e = 1.5
f = 0x1f
`, Options{})
	expectGlobal(t, r, "a", kinds(types.KindInt))
	expectGlobal(t, r, "b", kinds(types.KindStr))
	expectGlobal(t, r, "c", kinds(types.KindBool))
	expectGlobal(t, r, "d", kinds(types.KindBool))
	expectGlobal(t, r, "e", kinds(types.KindFloat))
	expectGlobal(t, r, "f", kinds(types.KindInt))
	if c, _ := r.Global("c"); c.Has(types.KindInt) {
		t.Fatal("bool must never widen to int")
	}
}

func TestOperatorsFollowLeftOperand(t *testing.T) {
	r := mustAnalyze(t, `
a = "s" * 3
b = 1 < "x"
c = 2.0 and 1
d = not "s"
e = -1.5
`, Options{})
	expectGlobal(t, r, "a", kinds(types.KindStr))
	expectGlobal(t, r, "b", kinds(types.KindInt))
	expectGlobal(t, r, "c", kinds(types.KindFloat))
	expectGlobal(t, r, "d", kinds(types.KindStr))
	expectGlobal(t, r, "e", kinds(types.KindFloat))
}

type boolCompare struct{ types.LeftOperand }

func (boolCompare) Compare([]ast.CompareOp, types.TypeValue, []types.TypeValue) types.TypeValue {
	return types.Of(types.KindBool)
}

func TestCustomOpTyper(t *testing.T) {
	r := mustAnalyze(t, "b = 1 < 2\n", Options{Ops: boolCompare{}})
	expectGlobal(t, r, "b", kinds(types.KindBool))
}

func TestAssignmentOverwrites(t *testing.T) {
	r := mustAnalyze(t, `
x = 1
x = "s"
a = b = 2.0
`, Options{})
	expectGlobal(t, r, "x", kinds(types.KindStr))
	expectGlobal(t, r, "a", kinds(types.KindFloat))
	expectGlobal(t, r, "b", kinds(types.KindFloat))
}

func TestCallWithoutFunctionMembers(t *testing.T) {
	rep := &recordingReporter{}
	r := mustAnalyze(t, `
x = 1
x = x(2)
`, Options{Reporter: rep})
	expectAbsent(t, r, "x")
	if rep.count(diag.AnaNoCallee) != 1 {
		t.Fatalf("expected one AnaNoCallee note, got %v", rep.codes)
	}
}

func TestPolymorphicCallee(t *testing.T) {
	r := mustAnalyze(t, `
def one(v):
    return 1
def two(v):
    return "two"
c = True
if c:
    g = one
else:
    g = two
res = g(c)
`, Options{})
	expectGlobal(t, r, "res", kinds(types.KindInt, types.KindStr))
	g, _ := r.Global("g")
	if len(g.Funcs()) != 2 {
		t.Fatalf("g = %v, want two functions", g)
	}
	if names := r.Names(g); !cmp.Equal(names, []string{"func one", "func two"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestLambda(t *testing.T) {
	r := mustAnalyze(t, `
ident = lambda v: v
a = ident("s")
b = ident(1)
c = (lambda: 2.0)()
`, Options{})
	expectGlobal(t, r, "a", kinds(types.KindStr))
	expectGlobal(t, r, "b", kinds(types.KindInt))
	expectGlobal(t, r, "c", kinds(types.KindFloat))
	fn := r.Function(".lambda:1:9")
	if fn == nil || fn.Analyses() != 2 {
		t.Fatalf("expected two analyses of the identity lambda")
	}
}

// return не прерывает тело: последующий return перезаписывает слот.
func TestLaterReturnOverwritesEarlier(t *testing.T) {
	r := mustAnalyze(t, `
def f(c):
    if c:
        return 1
    return "s"
x = f(True)
`, Options{})
	expectGlobal(t, r, "x", kinds(types.KindStr))
}

func TestNoReturnIsAbsent(t *testing.T) {
	r := mustAnalyze(t, `
def f():
    pass
x = f()
`, Options{})
	expectAbsent(t, r, "x")
}

func TestParameterShadowing(t *testing.T) {
	r := mustAnalyze(t, `
x = "outer"
def f(x):
    return x
res = f(1)
`, Options{})
	expectGlobal(t, r, "res", kinds(types.KindInt))
	expectGlobal(t, r, "x", kinds(types.KindStr))
}

func TestGlobalWritesModuleBinding(t *testing.T) {
	r := mustAnalyze(t, `
x = "s"
def g():
    global x
    x = 1
    return x
res = g()
`, Options{})
	fn := r.Function(".g")
	x, ok := entryValue(t, r, fn, fn.Entries()[0], "x")
	if !ok || !x.Equal(kinds(types.KindInt)) {
		t.Fatalf("x inside g = %v", x)
	}
	ref, _ := r.Table.Scope(r.Table.Root).Local("x")
	inner, _ := r.Table.Lookup(fn.Scope, "x")
	if ref != inner {
		t.Fatal("global x must be the module binding")
	}
	// the callee environment is not written back into the caller
	expectGlobal(t, r, "x", kinds(types.KindStr))
	expectGlobal(t, r, "res", kinds(types.KindInt))
}

func TestUndefinedPolicy(t *testing.T) {
	src := `
x = y
y = 1
`
	_, err := analyze(t, src, Options{})
	var ferr *Error
	if !errors.As(err, &ferr) || ferr.Code != diag.AnaUndefined {
		t.Fatalf("strict: expected AnaUndefined, got %v", err)
	}
	r := mustAnalyze(t, src, Options{Undefined: Lenient})
	expectAbsent(t, r, "x")
	expectGlobal(t, r, "y", kinds(types.KindInt))
}

func TestNameError(t *testing.T) {
	_, err := analyze(t, "x = print(1)\n", Options{})
	var ferr *Error
	if !errors.As(err, &ferr) || ferr.Code != diag.AnaNameError {
		t.Fatalf("expected AnaNameError, got %v", err)
	}
}

func TestArityMismatch(t *testing.T) {
	_, err := analyze(t, `
def f(a):
    return a
f(1, 2)
`, Options{})
	var ferr *Error
	if !errors.As(err, &ferr) || ferr.Code != diag.AnaArity {
		t.Fatalf("expected AnaArity, got %v", err)
	}
}

func TestRecursionTerminates(t *testing.T) {
	rep := &recordingReporter{}
	r := mustAnalyze(t, `
def fact(n):
    if n < 1:
        return 1
    return n * fact(n - 1)
res = fact(5)
`, Options{Reporter: rep})
	expectGlobal(t, r, "res", kinds(types.KindInt))
	if got := r.Function(".fact").Analyses(); got != 1 {
		t.Fatalf("fact analyzed %d times", got)
	}
	if rep.count(diag.AnaReentrantCall) != 1 {
		t.Fatalf("expected one re-entrant note, got %v", rep.codes)
	}
}

func TestCallDepthLimit(t *testing.T) {
	_, err := analyze(t, `
def c():
    return 1
def b():
    return c()
def a():
    return b()
res = a()
`, Options{MaxCallDepth: 2})
	var ferr *Error
	if !errors.As(err, &ferr) || ferr.Code != diag.AnaRecursionDepth {
		t.Fatalf("expected AnaRecursionDepth, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	src := "def f():\n    return 1\nx = f()\n"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := runWithContext(t, ctx, src)
	if !errors.Is(err, context.Canceled) || r != nil {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDeterminism(t *testing.T) {
	src := `
def pick(a, b):
    if a:
        r = a
    else:
        r = b
    return r
def twice(f, v):
    return f(f(v))
x = pick(1, "s")
y = pick(2.0, True)
z = twice(lambda q: q, x)
`
	first := snapshot(mustAnalyze(t, src, Options{}))
	second := snapshot(mustAnalyze(t, src, Options{}))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("runs differ (-first +second):\n%s", diff)
	}
}

func TestMergeMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []types.TypeValue{
		kinds(types.KindInt),
		kinds(types.KindStr),
		kinds(types.KindBool, types.KindFloat),
		types.Func(1),
		types.Join(types.Func(2), kinds(types.KindInt)),
	}
	randomEnv := func() Env {
		e := make(Env)
		for ref := symbols.RefID(1); ref <= 6; ref++ {
			if rng.Intn(3) > 0 {
				e.Set(ref, pool[rng.Intn(len(pool))])
			}
		}
		return e
	}
	for i := 0; i < 200; i++ {
		a, b := randomEnv(), randomEnv()
		m := Merge(a, b)
		for _, ref := range m.Refs() {
			got, _ := m.Get(ref)
			if va, ok := a.Get(ref); ok && !got.Contains(va) {
				t.Fatalf("merge lost members of left: %v ⊉ %v", got, va)
			}
			if vb, ok := b.Get(ref); ok && !got.Contains(vb) {
				t.Fatalf("merge lost members of right: %v ⊉ %v", got, vb)
			}
		}
		for ref := range a {
			if _, ok := m.Get(ref); !ok {
				t.Fatal("merge dropped a ref present on the left")
			}
		}
		for ref := range b {
			if _, ok := m.Get(ref); !ok {
				t.Fatal("merge dropped a ref present on the right")
			}
		}
	}
}

func TestEnvSetEmptyDeletes(t *testing.T) {
	e := make(Env)
	e.Set(1, kinds(types.KindInt))
	e.Set(1, types.Empty)
	if _, ok := e.Get(1); ok {
		t.Fatal("empty write must remove the binding")
	}
}
