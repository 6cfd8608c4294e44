package symbols

import "fmt"

type DefKind uint8

const (
	DefFunction DefKind = iota + 1
	DefLambda
)

func (k DefKind) String() string {
	switch k {
	case DefFunction:
		return "def"
	case DefLambda:
		return "lambda"
	default:
		return "?"
	}
}

// DefKey identifies a definition node by kind, name and source position,
// so repeated visits of the same node map to the same function.
type DefKey struct {
	Kind DefKind
	Name string
	Line uint32
	Col  uint32
}

func (k DefKey) String() string {
	if k.Kind == DefLambda {
		return fmt.Sprintf("lambda:%d:%d", k.Line, k.Col)
	}
	return fmt.Sprintf("def:%s:%d:%d", k.Name, k.Line, k.Col)
}
