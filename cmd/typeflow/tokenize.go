package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typeflow/internal/diagfmt"
	"typeflow/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.py",
		Short: "Tokenize a Python source file",
		Long:  `Tokenize breaks a source file into tokens, including INDENT/DEDENT and leading trivia`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	out, err := readOutputSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], out.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Диагностика в stderr
	if err := printDiagnostics(cmd.ErrOrStderr(), result.FileSet, out, format == "json", result.Bag); err != nil {
		return err
	}

	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errFailed
	}
	return nil
}
