package driver

import (
	"typeflow/internal/flow"
	"typeflow/internal/symbols"
)

// Report is the serializable outcome of one analyzed file. The same struct
// backs the text, JSON and MessagePack outputs.
type Report struct {
	File        string             `json:"file" msgpack:"file"`
	Policy      string             `json:"policy" msgpack:"policy"`
	OK          bool               `json:"ok" msgpack:"ok"`
	Analyses    int                `json:"analyses" msgpack:"analyses"`
	Module      []BindingReport    `json:"module" msgpack:"module"`
	Functions   []FunctionReport   `json:"functions" msgpack:"functions"`
	Diagnostics []DiagnosticReport `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
}

// BindingReport is one variable and its kinds; Absent marks a binding that no
// analyzed path assigned.
type BindingReport struct {
	Name   string   `json:"name" msgpack:"name"`
	Kinds  []string `json:"kinds" msgpack:"kinds"`
	Absent bool     `json:"absent,omitempty" msgpack:"absent,omitempty"`
}

type FunctionReport struct {
	Name     string        `json:"name" msgpack:"name"`
	Key      string        `json:"key" msgpack:"key"`
	Params   []string      `json:"params" msgpack:"params"`
	Analyses int           `json:"analyses" msgpack:"analyses"`
	Entries  []EntryReport `json:"entries" msgpack:"entries"`
}

// EntryReport is one memoized signature with the final environment of the
// function's own bindings.
type EntryReport struct {
	Signature [][]string      `json:"signature" msgpack:"signature"`
	Bindings  []BindingReport `json:"bindings" msgpack:"bindings"`
}

type DiagnosticReport struct {
	Severity string `json:"severity" msgpack:"severity"`
	Code     string `json:"code" msgpack:"code"`
	Message  string `json:"message" msgpack:"message"`
	Location string `json:"location,omitempty" msgpack:"location,omitempty"`
}

// BuildReport flattens an analysis result.
func BuildReport(res *AnalyzeResult) *Report {
	if res.Cached != nil {
		return res.Cached
	}
	rep := &Report{
		File:   res.Path,
		Policy: res.Options.Undefined.String(),
		OK:     res.Flow != nil && !res.Bag.HasErrors(),
	}
	for _, d := range res.Bag.Items() {
		dr := DiagnosticReport{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		if res.File != nil && d.Primary.File == res.File.ID && (d.Primary.Start != 0 || d.Primary.End != 0) {
			dr.Location = res.FileSet.Position(d.Primary)
		}
		rep.Diagnostics = append(rep.Diagnostics, dr)
	}
	if res.Flow == nil {
		return rep
	}

	r := res.Flow
	rep.Analyses = r.Analyses
	rep.Module = bindingReports(r, r.Bindings(r.Table.Root, r.Module))
	for _, fn := range r.Functions {
		fr := FunctionReport{
			Name:     fn.Name,
			Key:      fn.Key.String(),
			Analyses: fn.Analyses(),
		}
		for _, p := range fn.Params {
			fr.Params = append(fr.Params, r.Table.Ref(p).Name)
		}
		for _, e := range fn.Entries() {
			er := EntryReport{}
			for _, arg := range e.Signature {
				er.Signature = append(er.Signature, r.Names(arg))
			}
			er.Bindings = bindingReports(r, r.Bindings(fn.Scope, e.Env))
			fr.Entries = append(fr.Entries, er)
		}
		rep.Functions = append(rep.Functions, fr)
	}
	return rep
}

func bindingReports(r *flow.Result, bindings []flow.Binding) []BindingReport {
	out := make([]BindingReport, 0, len(bindings))
	for _, b := range bindings {
		br := BindingReport{Name: b.Name, Kinds: []string{}}
		if b.Name == symbols.ReturnSlot {
			br.Name = "<return>"
		}
		if b.Bound {
			br.Kinds = r.Names(b.Value)
		} else {
			br.Absent = true
		}
		out = append(out, br)
	}
	return out
}
