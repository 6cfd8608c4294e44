package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"typeflow/internal/diag"
	"typeflow/internal/diagfmt"
	"typeflow/internal/driver"
	"typeflow/internal/flow"
	"typeflow/internal/observ"
	"typeflow/internal/version"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [flags] <file.py|dir>...",
		Short: "Infer the type sets of every variable",
		Long: `Analyze abstractly interprets each module and prints, for the module and
for every analysis of every function, the kinds each variable may hold`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}
	cmd.Flags().String("format", "text", "report format (text|json|msgpack|sarif)")
	cmd.Flags().String("undefined", "strict", "reading an unassigned variable (strict|lenient)")
	cmd.Flags().Int("max-call-depth", flow.DefaultMaxCallDepth, "maximum nesting of function analyses")
	cmd.Flags().Int("jobs", 0, "files analyzed in parallel (0 = GOMAXPROCS)")
	cmd.Flags().String("ui", "off", "progress UI mode (auto|on|off)")
	cmd.Flags().Bool("cache", false, "reuse reports of unchanged files")
	cmd.Flags().String("cache-dir", "", "report cache directory (default: user cache dir)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	out, err := readOutputSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "text", "json", "msgpack", "sarif":
	default:
		return fmt.Errorf("unknown format %q (expected text|json|msgpack|sarif)", format)
	}

	opts, err := readBatchOptions(cmd, out)
	if err != nil {
		return err
	}
	files, err := expandPaths(args)
	if err != nil {
		return err
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var batch *driver.Batch
	if shouldUseTUI(mode) && !out.quiet {
		batch, err = runAnalyzeWithUI(ctx, "analyzing", files, opts)
	} else {
		batch, err = driver.AnalyzeFiles(ctx, files, opts, nil)
	}
	if batch == nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// load failures are already IO diagnostics in the batch
	if err != nil && !onlyLoadErrors(batch) {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}

	if err := writeBatch(cmd, batch, format, out); err != nil {
		return err
	}
	if err != nil || batch.Failed() > 0 {
		return errFailed
	}
	return nil
}

func readBatchOptions(cmd *cobra.Command, out outputSettings) (driver.BatchOptions, error) {
	var opts driver.BatchOptions
	flags := cmd.Flags()

	undefined, err := flags.GetString("undefined")
	if err != nil {
		return opts, fmt.Errorf("failed to get undefined flag: %w", err)
	}
	if opts.Undefined, err = flow.ParsePolicy(undefined); err != nil {
		return opts, err
	}
	if opts.MaxCallDepth, err = flags.GetInt("max-call-depth"); err != nil {
		return opts, fmt.Errorf("failed to get max-call-depth flag: %w", err)
	}
	if opts.MaxCallDepth <= 0 {
		return opts, fmt.Errorf("--max-call-depth must be positive, got %d", opts.MaxCallDepth)
	}
	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	opts.MaxDiagnostics = out.maxDiagnostics
	opts.EnableTimings = out.timings

	useCache, err := flags.GetBool("cache")
	if err != nil {
		return opts, fmt.Errorf("failed to get cache flag: %w", err)
	}
	cacheDir, err := flags.GetString("cache-dir")
	if err != nil {
		return opts, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if useCache || cacheDir != "" {
		if cacheDir != "" {
			opts.Cache, err = driver.NewReportCache(cacheDir)
		} else {
			opts.Cache, err = driver.OpenReportCache("typeflow")
		}
		if err != nil {
			return opts, fmt.Errorf("report cache: %w", err)
		}
	}
	return opts, nil
}

// expandPaths replaces directories with the Python files below them.
func expandPaths(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	for _, arg := range args {
		paths := []string{arg}
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			listed, err := driver.ListPyFiles(arg)
			if err != nil {
				return nil, err
			}
			if len(listed) == 0 {
				return nil, fmt.Errorf("%s: no .py files", arg)
			}
			paths = listed
		}
		for _, p := range paths {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}
	return files, nil
}

// onlyLoadErrors reports whether every result without output carries its
// own diagnostic.
func onlyLoadErrors(batch *driver.Batch) bool {
	for _, res := range batch.Results {
		if res.Flow == nil && res.Cached == nil && res.Bag.Len() == 0 {
			return false
		}
	}
	return true
}

func writeBatch(cmd *cobra.Command, batch *driver.Batch, format string, out outputSettings) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	reports := make([]*driver.Report, 0, len(batch.Results))
	bags := make([]*diag.Bag, 0, len(batch.Results))
	timings := make([]*observ.Report, 0, len(batch.Results))
	for _, res := range batch.Results {
		reports = append(reports, driver.BuildReport(res))
		bags = append(bags, res.Bag)
		timings = append(timings, res.Timing)
	}

	var err error
	switch format {
	case "json":
		err = diagfmt.ReportJSON(stdout, reports)
	case "msgpack":
		err = diagfmt.ReportMsgpack(stdout, reports)
	case "sarif":
		merged := diag.NewBag(0)
		for _, bag := range bags {
			merged.Merge(bag)
		}
		merged.Filter(diag.SevWarning)
		err = diagfmt.Sarif(stdout, merged, batch.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "typeflow",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		if err = printDiagnostics(stderr, batch.FileSet, out, false, bags...); err != nil {
			return err
		}
		err = diagfmt.ReportText(stdout, reports, diagfmt.ReportTextOpts{Color: out.colorOut})
	}
	if err != nil {
		return fmt.Errorf("write %s report: %w", format, err)
	}

	if out.timings {
		_, err = fmt.Fprint(stderr, observ.Aggregate(timings...).Summary())
	}
	return err
}
