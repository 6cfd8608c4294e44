package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typeflow/internal/diagfmt"
	"typeflow/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.py",
		Short: "Parse a Python source file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|tree|json)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	out, err := readOutputSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(args[0], out.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), result.FileSet, out, format == "json", result.Bag); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errFailed
	}

	w := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(w, result.Builder, result.FileID, result.FileSet)
	case "tree":
		return diagfmt.FormatASTTree(w, result.Builder, result.FileID, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(w, result.Builder, result.FileID)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
