package token

import "typeflow/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaComment
	TriviaBlankLine
	TriviaContinuation // backslash line joining
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaComment:
		return "Comment"
	case TriviaBlankLine:
		return "BlankLine"
	case TriviaContinuation:
		return "Continuation"
	}
	return "TriviaKind(?)"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
