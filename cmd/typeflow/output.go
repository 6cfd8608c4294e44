package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"typeflow/internal/diag"
	"typeflow/internal/diagfmt"
	"typeflow/internal/source"
)

// outputSettings are the persistent output flags shared by all commands.
type outputSettings struct {
	colorOut       bool
	colorErr       bool
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readOutputSettings(cmd *cobra.Command) (outputSettings, error) {
	var s outputSettings
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return s, fmt.Errorf("failed to get color flag: %w", err)
	}
	if s.colorOut, err = colorEnabled(colorFlag, fileOf(cmd.OutOrStdout())); err != nil {
		return s, err
	}
	if s.colorErr, err = colorEnabled(colorFlag, fileOf(cmd.ErrOrStderr())); err != nil {
		return s, err
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return s, nil
}

func fileOf(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}

// printDiagnostics writes bags to w, as JSON when asJSON is set. Timing
// diagnostics are left out: the aggregated summary is printed separately.
func printDiagnostics(w io.Writer, fs *source.FileSet, out outputSettings, asJSON bool, bags ...*diag.Bag) error {
	merged := diag.NewBag(0)
	for _, bag := range bags {
		if bag == nil {
			continue
		}
		for _, d := range bag.Items() {
			if d.Code == diag.ObsTimings {
				continue
			}
			merged.Add(d)
		}
	}
	if out.quiet {
		merged.Filter(diag.SevError)
	}
	if merged.Len() == 0 {
		return nil
	}
	if asJSON {
		return diagfmt.JSON(w, merged, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	}
	return diagfmt.Pretty(w, merged, fs, diagfmt.PrettyOpts{Color: out.colorErr, ShowNotes: true})
}
