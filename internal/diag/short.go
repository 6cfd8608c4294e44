package diag

import (
	"fmt"
	"strings"

	"typeflow/internal/source"
)

// FormatShort renders diagnostics one per line as
// "path:line:col: SEVERITY CODE: message", followed by indented notes.
// Paths are relative to the file set base directory.
func FormatShort(fs *source.FileSet, diags []Diagnostic) string {
	var b strings.Builder
	for i := range diags {
		d := &diags[i]
		fmt.Fprintf(&b, "%s: %s %s: %s\n", location(fs, d.Primary), d.Severity, d.Code.ID(), d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "  note: %s: %s\n", location(fs, n.Span), n.Msg)
		}
	}
	return b.String()
}

func location(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return sp.String()
	}
	f := fs.Get(sp.File)
	if f == nil {
		return sp.String()
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.DisplayPath(fs.BaseDir(), false), start.Line, start.Col)
}
