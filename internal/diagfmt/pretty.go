package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"typeflow/internal/diag"
	"typeflow/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Bold),
		path:   mk(color.FgWhite, color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
		note:   mk(color.FgGreen),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, fs, opts, p); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) error {
	var head strings.Builder
	if hasLocation(fs, d.Primary) {
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		head.WriteString(p.path.Sprintf("%s:%d:%d", displayPath(fs, f, opts.PathMode), start.Line, start.Col))
		head.WriteString(": ")
	}
	head.WriteString(p.severity(d.Severity).Sprint(d.Severity.String()))
	head.WriteString(" ")
	head.WriteString(p.code.Sprint(d.Code.ID()))
	head.WriteString(": ")
	head.WriteString(d.Message)
	if _, err := fmt.Fprintln(w, head.String()); err != nil {
		return err
	}

	// заметка с таймингами несёт JSON, его не показываем
	if hasLocation(fs, d.Primary) && d.Code != diag.ObsTimings {
		if err := writeSnippet(w, fs, d.Primary, opts.Context, p); err != nil {
			return err
		}
	}
	if !opts.ShowNotes {
		return nil
	}
	for _, n := range d.Notes {
		loc := ""
		if hasLocation(fs, n.Span) {
			loc = fs.Position(n.Span) + ": "
		}
		if _, err := fmt.Fprintf(w, "  %s %s%s\n", p.note.Sprint("note:"), loc, n.Msg); err != nil {
			return err
		}
	}
	return nil
}

// writeSnippet prints the lines around span with a caret underline under the
// first line of the span. Columns are display columns, so wide runes and
// tabs keep the carets aligned.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, context int, p palette) error {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	lineCount, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}

	first := start.Line
	if context > 0 && first > uint32(context) {
		first -= uint32(context)
	} else if context > 0 {
		first = 1
	}
	last := min(start.Line+uint32(max(context, 0)), lineCount)
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := expandTabs(f.GetLine(ln))
		gutter := p.gutter.Sprintf("%*d |", gutterWidth, ln)
		if _, err := fmt.Fprintf(w, "%s %s\n", gutter, text); err != nil {
			return err
		}
		if ln != start.Line {
			continue
		}
		raw := f.GetLine(ln)
		lead := displayWidth(prefixBytes(raw, start.Col-1))
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			width = max(displayWidth(sliceBytes(raw, start.Col-1, end.Col-1)), 1)
		} else if end.Line > start.Line {
			width = max(displayWidth(raw)-lead, 1)
		}
		underline := "^" + strings.Repeat("~", width-1)
		pad := strings.Repeat(" ", gutterWidth) + " |"
		if _, err := fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprint(pad), strings.Repeat(" ", lead), p.caret.Sprint(underline)); err != nil {
			return err
		}
	}
	return nil
}

const tabWidth = 4

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func prefixBytes(s string, n uint32) string {
	return s[:min(int(n), len(s))]
}

func sliceBytes(s string, from, to uint32) string {
	end := min(int(to), len(s))
	start := min(int(from), end)
	return s[start:end]
}
