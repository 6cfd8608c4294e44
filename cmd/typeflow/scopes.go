package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"typeflow/internal/diag"
	"typeflow/internal/diagfmt"
	"typeflow/internal/driver"
	"typeflow/internal/symbols"
)

func newScopesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scopes [flags] file.py",
		Short: "Print the scope tree and the bindings of every scope",
		Args:  cobra.ExactArgs(1),
		RunE:  runScopes,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runScopes(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	out, err := readOutputSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(args[0], out.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	bag := result.Bag
	if !bag.HasErrors() {
		table, err := symbols.Build(result.Builder, result.FileID, symbols.Options{
			Files:    result.FileSet,
			Reporter: diag.BagReporter{Bag: bag},
		})
		var serr *symbols.Error
		switch {
		case errors.As(err, &serr):
			bag.Add(serr.Diagnostic())
		case err != nil:
			return err
		default:
			if err := printDiagnostics(cmd.ErrOrStderr(), result.FileSet, out, format == "json", bag); err != nil {
				return err
			}
			if format == "json" {
				return diagfmt.FormatScopesJSON(cmd.OutOrStdout(), table, result.FileSet)
			}
			return diagfmt.FormatScopesPretty(cmd.OutOrStdout(), table, result.FileSet)
		}
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), result.FileSet, out, format == "json", bag); err != nil {
		return err
	}
	return errFailed
}
