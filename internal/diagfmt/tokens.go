package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"typeflow/internal/source"
	"typeflow/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Line    uint32      `json:"line,omitempty"`
	Col     uint32      `json:"col,omitempty"`
	Leading []string    `json:"leading,omitempty"`
}

func triviaKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	leading := make([]string, 0, len(tok.Leading))
	for _, trivia := range tok.Leading {
		leading = append(leading, trivia.Kind.String())
	}
	return leading
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		// у layout-токенов текст служебный
		if tok.Text != "" && !tok.IsLayout() {
			fmt.Fprintf(w, " %q", tok.Text) //nolint:errcheck
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col) //nolint:errcheck
		if leading := triviaKinds(tok); len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", ")) //nolint:errcheck
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате. fs may be nil, then
// line/col are omitted.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:    tok.Kind.String(),
			Span:    tok.Span,
			Leading: triviaKinds(tok),
		}
		if !tok.IsLayout() {
			out.Text = tok.Text
		}
		if fs != nil {
			start, _ := fs.Resolve(tok.Span)
			out.Line, out.Col = start.Line, start.Col
		}
		output = append(output, out)

		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
