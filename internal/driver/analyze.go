package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"typeflow/internal/ast"
	"typeflow/internal/diag"
	"typeflow/internal/flow"
	"typeflow/internal/observ"
	"typeflow/internal/source"
	"typeflow/internal/symbols"
	"typeflow/internal/trace"
)

// Options configure one analysis.
type Options struct {
	Undefined      flow.Policy
	MaxCallDepth   int
	MaxDiagnostics int
	EnableTimings  bool
	PhaseObserver  PhaseObserver
}

// AnalyzeResult is everything produced for one file. Flow is nil when the
// file did not parse or the analysis aborted; the reason is in Bag.
type AnalyzeResult struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File
	FileID  ast.FileID
	Builder *ast.Builder
	Table   *symbols.Table
	Flow    *flow.Result
	Bag     *diag.Bag
	Timing  *observ.Report
	Options Options
	Cached  *Report // set instead of Flow when the report came from a ReportCache
}

// Failed reports whether the file produced an error diagnostic.
func (r *AnalyzeResult) Failed() bool {
	return r == nil || r.Bag.HasErrors()
}

// Analyze loads path and runs the whole pipeline over it. The returned error
// covers I/O and cancellation only; analysis failures are diagnostics.
func Analyze(ctx context.Context, path string, opts Options) (*AnalyzeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return analyzeFile(ctx, fs, fileID, opts)
}

// AnalyzeSource runs the pipeline over in-memory source.
func AnalyzeSource(ctx context.Context, name string, src []byte, opts Options) (*AnalyzeResult, error) {
	fs := source.NewFileSet()
	return analyzeFile(ctx, fs, fs.AddVirtual(name, src), opts)
}

func analyzeFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*AnalyzeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	file := fs.Get(id)
	res := &AnalyzeResult{
		Path:    file.Path,
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Options: opts,
	}
	fileSpan, ctx := trace.BeginCtx(ctx, trace.ScopeFile, "file:"+file.Path)
	defer func() {
		fileSpan.WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).End("")
	}()

	ph := newPhases(opts.EnableTimings, opts.PhaseObserver)
	defer func() {
		res.Timing = ph.report()
		appendTimingDiagnostic(res.Bag, file.Path, res.Timing)
	}()

	// parse
	idx := ph.begin("parse")
	span, _ := trace.BeginCtx(ctx, trace.ScopePass, "parse")
	parsed, err := parseFile(fs, id, opts.MaxDiagnostics)
	span.End("")
	ph.end(idx, "parse", "")
	if err != nil {
		return nil, err
	}
	res.Builder = parsed.Builder
	res.FileID = parsed.FileID
	res.Bag.Merge(parsed.Bag)
	if res.Bag.HasErrors() {
		return res, nil
	}

	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	// scopes
	idx = ph.begin("scopes")
	span, _ = trace.BeginCtx(ctx, trace.ScopePass, "scopes")
	table, err := symbols.Build(res.Builder, res.FileID, symbols.Options{Files: fs, Reporter: rep})
	span.End("")
	ph.end(idx, "scopes", "")
	if err != nil {
		return res, fatal(res.Bag, err)
	}
	res.Table = table

	// eval
	idx = ph.begin("eval")
	fc := flow.NewContext(res.Builder, table, flow.Options{
		Undefined:    opts.Undefined,
		MaxCallDepth: opts.MaxCallDepth,
		Reporter:     rep,
	})
	out, err := fc.Run(ctx, res.FileID)
	ph.end(idx, "eval", fmt.Sprintf("%d function analyses", fc.Analyses()))
	if err != nil {
		return res, fatal(res.Bag, err)
	}
	res.Flow = out
	return res, nil
}

// fatal records a typed analysis failure in bag. Anything else (cancellation,
// internal errors) is handed back to the caller.
func fatal(bag *diag.Bag, err error) error {
	var ferr *flow.Error
	if errors.As(err, &ferr) {
		forceAdd(bag, ferr.Diagnostic())
		return nil
	}
	var serr *symbols.Error
	if errors.As(err, &serr) {
		forceAdd(bag, serr.Diagnostic())
		return nil
	}
	return err
}

// forceAdd adds d even when the bag limit is reached.
func forceAdd(bag *diag.Bag, d diag.Diagnostic) {
	if bag.Add(d) {
		return
	}
	extra := diag.NewBag(0)
	extra.Add(d)
	bag.Merge(extra)
}
