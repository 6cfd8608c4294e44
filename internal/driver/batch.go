package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"typeflow/internal/diag"
	"typeflow/internal/source"
	"typeflow/internal/trace"
)

// BatchOptions extend Options with the worker limit.
type BatchOptions struct {
	Options
	Jobs  int          // <= 0 means GOMAXPROCS
	Cache *ReportCache // optional; clean reports are reused by content hash
}

// Batch holds per-file results in input order.
type Batch struct {
	FileSet *source.FileSet
	Results []*AnalyzeResult
}

// Failed counts files with error diagnostics.
func (b *Batch) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// ListPyFiles returns every *.py file under dir, sorted.
func ListPyFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "__pycache__") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// AnalyzeFiles analyzes paths concurrently. Each file gets its own flow
// context, so no cache is shared between workers. Files that cannot be
// loaded still get a result carrying an IO4001 diagnostic; their errors are
// also combined into the returned error.
func AnalyzeFiles(ctx context.Context, paths []string, opts BatchOptions, sink ProgressSink) (*Batch, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	base := ""
	if len(paths) > 0 {
		base = commonDir(paths)
	}
	fileSet := source.NewFileSetWithBase(base)
	batch := &Batch{FileSet: fileSet, Results: make([]*AnalyzeResult, len(paths))}
	if len(paths) == 0 {
		return batch, nil
	}

	span, ctx := trace.BeginCtx(ctx, trace.ScopeDriver, "analyze-files")
	defer span.WithExtra("files", fmt.Sprint(len(paths))).End("")

	// FileSet is not safe for concurrent writes: load everything up front.
	var loadErr error
	ids := make([]source.FileID, len(paths))
	loaded := make([]bool, len(paths))
	for i, path := range paths {
		emit(sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			loadErr = multierr.Append(loadErr, fmt.Errorf("load %s: %w", path, err))
			bag := diag.NewBag(opts.MaxDiagnostics)
			forceAdd(bag, diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("%s: %v", path, err)))
			batch.Results[i] = &AnalyzeResult{Path: path, FileSet: fileSet, Bag: bag, Options: opts.Options}
			emit(sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		ids[i] = id
		loaded[i] = true
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		if !loaded[i] {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			file := fileSet.Get(ids[i])
			key := KeyFor(file, opts.Options)
			if rep := cachedReport(gctx, opts.Cache, key); rep != nil {
				rep.File = path
				batch.Results[i] = &AnalyzeResult{Path: path, FileSet: fileSet, File: file, Bag: diag.NewBag(0), Options: opts.Options, Cached: rep}
				emit(sink, Event{File: path, Stage: StageEval, Status: StatusDone, Elapsed: time.Since(start)})
				return nil
			}
			emit(sink, Event{File: path, Stage: StageEval, Status: StatusWorking})
			fileOpts := opts.Options
			fileOpts.PhaseObserver = func(ev PhaseEvent) {
				if ev.Status == PhaseStart {
					emit(sink, Event{File: path, Stage: Stage(ev.Name), Status: StatusWorking})
				}
			}
			res, err := analyzeFile(gctx, fileSet, ids[i], fileOpts)
			if err != nil {
				emit(sink, Event{File: path, Stage: StageEval, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return fmt.Errorf("%s: %w", path, err)
			}
			res.Path = path
			batch.Results[i] = res
			if opts.Cache != nil && res.Flow != nil && res.Bag.Len() == 0 {
				if err := opts.Cache.Put(key, BuildReport(res)); err != nil {
					trace.Point(trace.FromContext(gctx), trace.ScopeFile, "cache-put", err.Error(), map[string]string{"file": path})
				}
			}
			status := StatusDone
			if res.Failed() {
				status = StatusError
			}
			emit(sink, Event{File: path, Stage: StageEval, Status: status, Elapsed: time.Since(start)})
			return nil
		})
	}
	err := g.Wait()
	emit(sink, Event{Stage: StageEval, Status: StatusDone})

	// cancelled workers leave holes; fill them so callers can index safely
	for i, r := range batch.Results {
		if r == nil {
			batch.Results[i] = &AnalyzeResult{Path: paths[i], FileSet: fileSet, Bag: diag.NewBag(0), Options: opts.Options}
		}
	}
	return batch, multierr.Combine(loadErr, err)
}

func cachedReport(ctx context.Context, cache *ReportCache, key CacheKey) *Report {
	if cache == nil {
		return nil
	}
	rep, ok, err := cache.Get(key)
	if err != nil {
		// битая запись считается промахом
		trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-get", err.Error(), nil)
		return nil
	}
	if !ok {
		return nil
	}
	return rep
}

// commonDir returns the deepest directory containing every path.
func commonDir(paths []string) string {
	dir := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		for !strings.HasPrefix(filepath.Dir(p)+string(filepath.Separator), dir+string(filepath.Separator)) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return dir
			}
			dir = parent
		}
	}
	return dir
}
