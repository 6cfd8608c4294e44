package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"typeflow/internal/diag"
	"typeflow/internal/driver"
)

// ReportsOutput is the root of the JSON and MessagePack report encodings.
type ReportsOutput struct {
	Reports []*driver.Report `json:"reports" msgpack:"reports"`
	Count   int              `json:"count" msgpack:"count"`
	Failed  int              `json:"failed" msgpack:"failed"`
}

// NewReportsOutput wraps reps with their counters.
func NewReportsOutput(reps []*driver.Report) ReportsOutput {
	out := ReportsOutput{Reports: reps, Count: len(reps)}
	for _, r := range reps {
		if !r.OK {
			out.Failed++
		}
	}
	return out
}

// ReportJSON пишет отчёты как один JSON-документ.
func ReportJSON(w io.Writer, reps []*driver.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewReportsOutput(reps))
}

// ReportMsgpack пишет тот же документ в MessagePack; ключи берутся из
// msgpack-тегов, так что схема совпадает с JSON.
func ReportMsgpack(w io.Writer, reps []*driver.Report) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc.Encode(NewReportsOutput(reps))
}

// DecodeReportMsgpack reads a document written by ReportMsgpack.
func DecodeReportMsgpack(r io.Reader) (ReportsOutput, error) {
	var out ReportsOutput
	err := msgpack.NewDecoder(r).Decode(&out)
	return out, err
}

// ReportTextOpts configures the human-readable report.
type ReportTextOpts struct {
	Color bool
}

// ReportText prints each report as a block:
//
//	example.py: ok (strict, 1 analysis)
//	module
//	  f   = {func f}
//	  res = {int, str}
//	function .f(x, y) [def:f:1:1]
//	  (int, int)
//	    x = {int}
func ReportText(w io.Writer, reps []*driver.Report, opts ReportTextOpts) error {
	p := newPalette(opts.Color)
	var b strings.Builder
	for i, rep := range reps {
		if i > 0 {
			b.WriteString("\n")
		}
		writeReport(&b, rep, p)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeReport(b *strings.Builder, rep *driver.Report, p palette) {
	status := p.note.Sprint("ok")
	if !rep.OK {
		status = p.err.Sprint("failed")
	}
	plural := "analyses"
	if rep.Analyses == 1 {
		plural = "analysis"
	}
	fmt.Fprintf(b, "%s: %s (%s, %d %s)\n", p.path.Sprint(rep.File), status, rep.Policy, rep.Analyses, plural)
	if !rep.OK {
		for _, d := range rep.Diagnostics {
			if sev, _ := diag.ParseSeverity(d.Severity); sev != diag.SevError {
				continue
			}
			loc := ""
			if d.Location != "" {
				loc = d.Location + ": "
			}
			fmt.Fprintf(b, "  %s%s %s\n", loc, p.code.Sprint(d.Code), d.Message)
		}
		return
	}

	b.WriteString(p.code.Sprint("module"))
	b.WriteString("\n")
	writeBindings(b, rep.Module, "  ", p)
	for _, fn := range rep.Functions {
		fmt.Fprintf(b, "%s %s(%s) [%s]", p.code.Sprint("function"), fn.Name, strings.Join(fn.Params, ", "), fn.Key)
		if len(fn.Entries) == 0 {
			b.WriteString(" never called")
		}
		b.WriteString("\n")
		for _, e := range fn.Entries {
			args := make([]string, len(e.Signature))
			for i, kinds := range e.Signature {
				args[i] = strings.Join(kinds, "|")
			}
			fmt.Fprintf(b, "  (%s)\n", strings.Join(args, ", "))
			writeBindings(b, e.Bindings, "    ", p)
		}
	}
}

func writeBindings(b *strings.Builder, bindings []driver.BindingReport, indent string, p palette) {
	width := 0
	for _, br := range bindings {
		width = max(width, runewidth.StringWidth(br.Name))
	}
	for _, br := range bindings {
		value := "{" + strings.Join(br.Kinds, ", ") + "}"
		if br.Absent {
			value = p.warn.Sprint("absent")
		}
		fmt.Fprintf(b, "%s%s = %s\n", indent, runewidth.FillRight(br.Name, width), value)
	}
}
