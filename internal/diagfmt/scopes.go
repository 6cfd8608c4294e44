package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"typeflow/internal/source"
	"typeflow/internal/symbols"
)

// ScopeOutput is the JSON shape of one scope and its nested scopes.
type ScopeOutput struct {
	Kind     string        `json:"kind"`
	Name     string        `json:"name"`
	Key      string        `json:"key,omitempty"`
	Location string        `json:"location,omitempty"`
	Params   []string      `json:"params,omitempty"`
	Refs     []string      `json:"refs"`
	Globals  []string      `json:"globals,omitempty"`
	Nested   []ScopeOutput `json:"nested,omitempty"`
}

func refNames(table *symbols.Table, ids []symbols.RefID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		name := table.Ref(id).Name
		if name == symbols.ReturnSlot {
			name = "<return>"
		}
		out = append(out, name)
	}
	return out
}

func scopeOutput(table *symbols.Table, id symbols.ScopeID, fs *source.FileSet) ScopeOutput {
	s := table.Scope(id)
	out := ScopeOutput{
		Kind:    s.Kind.String(),
		Name:    s.Name,
		Params:  refNames(table, s.Params),
		Refs:    refNames(table, s.Refs),
		Globals: s.Globals,
	}
	if s.Kind != symbols.ScopeModule {
		out.Key = s.Owner.Key.String()
		if hasLocation(fs, s.Owner.Span) {
			out.Location = formatSpan(s.Owner.Span, fs)
		}
	}
	if out.Name == "" {
		out.Name = "<module>"
	}
	for _, child := range s.Nested {
		out.Nested = append(out.Nested, scopeOutput(table, child, fs))
	}
	return out
}

// FormatScopesPretty печатает дерево областей видимости:
// вид, путь, ключ определения, параметры, связывания и global-имена.
func FormatScopesPretty(w io.Writer, table *symbols.Table, fs *source.FileSet) error {
	return writeScope(w, scopeOutput(table, table.Root, fs), "", "")
}

func scopeLine(s ScopeOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", s.Kind, s.Name)
	if s.Key != "" {
		fmt.Fprintf(&b, " [%s]", s.Key)
	}
	if s.Kind != symbols.ScopeModule.String() {
		fmt.Fprintf(&b, " params(%s)", strings.Join(s.Params, ", "))
	}
	if len(s.Refs) > 0 {
		fmt.Fprintf(&b, " refs: %s", strings.Join(s.Refs, ", "))
	}
	if len(s.Globals) > 0 {
		fmt.Fprintf(&b, " global: %s", strings.Join(s.Globals, ", "))
	}
	if s.Location != "" {
		fmt.Fprintf(&b, " at %s", s.Location)
	}
	return b.String()
}

func writeScope(w io.Writer, s ScopeOutput, line, prefix string) error {
	if _, err := fmt.Fprintln(w, line+scopeLine(s)); err != nil {
		return err
	}
	for i, child := range s.Nested {
		marker, childPrefix := "├─ ", prefix+"│  "
		if i == len(s.Nested)-1 {
			marker, childPrefix = "└─ ", prefix+"   "
		}
		if err := writeScope(w, child, prefix+marker, childPrefix); err != nil {
			return err
		}
	}
	return nil
}

// FormatScopesJSON пишет дерево областей как ScopeOutput.
func FormatScopesJSON(w io.Writer, table *symbols.Table, fs *source.FileSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(scopeOutput(table, table.Root, fs))
}
