package token

import (
	"typeflow/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, string or None literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNone:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwDef && t.Kind <= KwAwait
}

// IsAugAssign reports whether the token is an augmented assignment operator.
func (t Token) IsAugAssign() bool {
	return t.Kind >= PlusAssign && t.Kind <= ShrAssign
}

// IsLayout reports whether the token is NEWLINE, INDENT or DEDENT.
func (t Token) IsLayout() bool {
	switch t.Kind {
	case Newline, Indent, Dedent:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
