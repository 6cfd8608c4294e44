package diagfmt

import (
	"encoding/json"
	"io"

	"typeflow/internal/diag"
	"typeflow/internal/source"
)

// LocationJSON is a byte range plus, on request, its 1-based line/col.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
}

// DiagnosticsOutput is the JSON document. Truncated is set when JSONOpts.Max
// cut the list; Count is what was kept.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Truncated   bool             `json:"truncated,omitempty"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

// location is nil for spans without a file (I/O errors, timings).
func (jb jsonBuilder) location(span source.Span) *LocationJSON {
	if !hasLocation(jb.fs, span) {
		return nil
	}
	loc := &LocationJSON{
		File:      displayPath(jb.fs, jb.fs.Get(span.File), jb.opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if jb.opts.IncludePositions {
		start, end := jb.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (jb jsonBuilder) diagnostic(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: jb.location(d.Primary),
	}
	// у таймингов вся полезная нагрузка в заметке
	if !jb.opts.IncludeNotes && d.Code != diag.ObsTimings {
		return out
	}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: jb.location(n.Span)})
	}
	return out
}

// BuildDiagnosticsOutput converts bag without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
		out.Truncated = true
	}
	jb := jsonBuilder{fs: fs, opts: opts}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, jb.diagnostic(d))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes bag as one indented document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
