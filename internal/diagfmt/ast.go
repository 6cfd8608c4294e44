package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"typeflow/internal/ast"
	"typeflow/internal/source"
)

// ASTNodeOutput is the JSON shape of one syntax node. Role names the slot
// the node fills in its parent ("cond", "body", "value", ...).
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind"`
	Role     string          `json:"role,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// astNode is the shared intermediate form behind every AST output.
type astNode struct {
	typ      string // File, Stmt, Expr or a grouping label
	kind     string
	role     string
	text     string
	span     source.Span
	spanned  bool
	children []*astNode
}

func (n *astNode) label(fs *source.FileSet) string {
	var b strings.Builder
	if n.role != "" {
		b.WriteString(n.role)
		b.WriteString(": ")
	}
	b.WriteString(n.kind)
	if n.text != "" {
		b.WriteString(" ")
		b.WriteString(n.text)
	}
	if n.spanned {
		fmt.Fprintf(&b, " (span: %s)", formatSpan(n.span, fs))
	}
	return b.String()
}

func (n *astNode) output() ASTNodeOutput {
	out := ASTNodeOutput{Type: n.typ, Kind: n.kind, Role: n.role, Span: n.span, Text: n.text}
	for _, c := range n.children {
		out.Children = append(out.Children, c.output())
	}
	return out
}

type astBuilder struct {
	b *ast.Builder
}

func buildFileNode(builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) (*astNode, error) {
	file := builder.Files.Get(fileID)
	if file == nil {
		return nil, fmt.Errorf("file %d not found", fileID)
	}
	header := "File"
	if fs != nil && hasLocation(fs, file.Span) {
		header = displayPath(fs, fs.Get(file.Span.File), PathModeAuto)
	}
	ab := astBuilder{b: builder}
	root := &astNode{typ: "File", kind: header, span: file.Span, spanned: true}
	root.children = ab.block("", file.Body)
	return root, nil
}

func (ab astBuilder) block(role string, stmts []ast.StmtID) []*astNode {
	out := make([]*astNode, 0, len(stmts))
	for _, id := range stmts {
		n := ab.stmt(id)
		n.role = role
		out = append(out, n)
	}
	return out
}

// group wraps a statement list under a label; nil for an empty list.
func (ab astBuilder) group(label string, stmts []ast.StmtID) *astNode {
	if len(stmts) == 0 {
		return nil
	}
	return &astNode{typ: "Group", kind: label, children: ab.block("", stmts)}
}

func (ab astBuilder) params(params []ast.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = ab.b.Name(p.Name)
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func appendNodes(dst []*astNode, nodes ...*astNode) []*astNode {
	for _, n := range nodes {
		if n != nil {
			dst = append(dst, n)
		}
	}
	return dst
}

func (ab astBuilder) stmt(id ast.StmtID) *astNode {
	st := ab.b.Stmts.Get(id)
	if st == nil {
		return &astNode{typ: "Stmt", kind: "<nil>"}
	}
	n := &astNode{typ: "Stmt", kind: st.Kind.String(), span: st.Span, spanned: true}
	stmts := ab.b.Stmts
	switch st.Kind {
	case ast.StmtFunctionDef:
		if def, ok := stmts.FunctionDef(id); ok {
			n.text = ab.b.Name(def.Name) + ab.params(def.Params)
			n.children = ab.block("", def.Body)
		}
	case ast.StmtIf:
		if s, ok := stmts.If(id); ok {
			n.children = appendNodes(n.children, ab.expr("cond", s.Cond), ab.group("Then", s.Then), ab.group("Else", s.Else))
		}
	case ast.StmtWhile:
		if s, ok := stmts.While(id); ok {
			n.children = appendNodes(n.children, ab.expr("cond", s.Cond), ab.group("Body", s.Body), ab.group("Else", s.Else))
		}
	case ast.StmtFor:
		if s, ok := stmts.For(id); ok {
			n.children = appendNodes(n.children, ab.expr("target", s.Target), ab.expr("iter", s.Iter),
				ab.group("Body", s.Body), ab.group("Else", s.Else))
		}
	case ast.StmtAssign:
		if s, ok := stmts.Assign(id); ok {
			for _, t := range s.Targets {
				n.children = append(n.children, ab.expr("target", t))
			}
			n.children = append(n.children, ab.expr("value", s.Value))
		}
	case ast.StmtAugAssign:
		if s, ok := stmts.AugAssign(id); ok {
			n.text = s.Op.String() + "="
			n.children = append(n.children, ab.expr("target", s.Target), ab.expr("value", s.Value))
		}
	case ast.StmtGlobal:
		if s, ok := stmts.Global(id); ok {
			names := make([]string, len(s.Names))
			for i, p := range s.Names {
				names[i] = ab.b.Name(p.Name)
			}
			n.text = strings.Join(names, ", ")
		}
	case ast.StmtExpr:
		if s, ok := stmts.Expr(id); ok {
			n.children = append(n.children, ab.expr("", s.Value))
		}
	case ast.StmtReturn:
		if s, ok := stmts.Return(id); ok && s.Value.IsValid() {
			n.children = append(n.children, ab.expr("value", s.Value))
		}
	case ast.StmtUnsupported:
		if s, ok := stmts.Unsupported(id); ok {
			n.text = fmt.Sprintf("%q", s.Label)
		}
	}
	return n
}

func (ab astBuilder) expr(role string, id ast.ExprID) *astNode {
	e := ab.b.Exprs.Get(id)
	if e == nil {
		return &astNode{typ: "Expr", kind: "<nil>", role: role}
	}
	n := &astNode{typ: "Expr", kind: e.Kind.String(), role: role, span: e.Span, spanned: true}
	exprs := ab.b.Exprs
	switch e.Kind {
	case ast.ExprName:
		if x, ok := exprs.Name(id); ok {
			n.text = ab.b.Name(x.Name)
		}
	case ast.ExprLit:
		if x, ok := exprs.Literal(id); ok {
			n.text = x.Kind.String() + " " + ab.b.Name(x.Value)
		}
	case ast.ExprBinary:
		if x, ok := exprs.Binary(id); ok {
			n.text = x.Op.String()
			n.children = append(n.children, ab.expr("left", x.Left), ab.expr("right", x.Right))
		}
	case ast.ExprCompare:
		if x, ok := exprs.Compare(id); ok {
			ops := make([]string, len(x.Ops))
			for i, op := range x.Ops {
				ops[i] = op.String()
			}
			n.text = strings.Join(ops, " ")
			n.children = append(n.children, ab.expr("left", x.Left))
			for _, r := range x.Rights {
				n.children = append(n.children, ab.expr("right", r))
			}
		}
	case ast.ExprBoolOp:
		if x, ok := exprs.BoolOp(id); ok {
			n.text = x.Op.String()
			for _, v := range x.Values {
				n.children = append(n.children, ab.expr("", v))
			}
		}
	case ast.ExprUnary:
		if x, ok := exprs.Unary(id); ok {
			n.text = x.Op.String()
			n.children = append(n.children, ab.expr("operand", x.Operand))
		}
	case ast.ExprCall:
		if x, ok := exprs.Call(id); ok {
			n.children = append(n.children, ab.expr("callee", x.Callee))
			for _, a := range x.Args {
				n.children = append(n.children, ab.expr("arg", a))
			}
		}
	case ast.ExprLambda:
		if x, ok := exprs.Lambda(id); ok {
			n.text = ab.params(x.Params)
			n.children = append(n.children, ab.expr("body", x.Body))
		}
	case ast.ExprUnsupported:
		if x, ok := exprs.Unsupported(id); ok {
			n.text = fmt.Sprintf("%q", x.Label)
		}
	}
	return n
}

// FormatASTPretty пишет дерево с маркерами ├─ / └─, по узлу на строку.
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	root, err := buildFileNode(builder, fileID, fs)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, root.label(fs)); err != nil {
		return err
	}
	return writeIndented(w, root.children, "", fs)
}

func writeIndented(w io.Writer, nodes []*astNode, prefix string, fs *source.FileSet) error {
	for i, n := range nodes {
		marker, childPrefix := "├─ ", prefix+"│  "
		if i == len(nodes)-1 {
			marker, childPrefix = "└─ ", prefix+"   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, marker, n.label(fs)); err != nil {
			return err
		}
		if err := writeIndented(w, n.children, childPrefix, fs); err != nil {
			return err
		}
	}
	return nil
}

// FormatASTJSON пишет AST как вложенные ASTNodeOutput.
func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	root, err := buildFileNode(builder, fileID, nil)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root.output())
}

// FormatASTTree рисует AST как ASCII-дерево сверху вниз. Spans are omitted
// to keep the picture narrow.
func FormatASTTree(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	root, err := buildFileNode(builder, fileID, fs)
	if err != nil {
		return err
	}
	block := renderTree(toTreeNode(root))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func toTreeNode(n *astNode) *treeNode {
	label := n.kind
	if n.text != "" {
		label += " " + n.text
	}
	if n.role != "" {
		label = n.role + ": " + label
	}
	tn := &treeNode{label: label}
	for _, c := range n.children {
		tn.children = append(tn.children, toTreeNode(c))
	}
	return tn
}
