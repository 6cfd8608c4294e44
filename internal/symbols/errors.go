package symbols

import (
	"typeflow/internal/diag"
	"typeflow/internal/source"
)

// Error is a fatal scope construction failure.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return e.Code.ID() + ": " + e.Msg
}

// Diagnostic converts the failure into an error diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}

func errorf(code diag.Code, sp source.Span, msg string) *Error {
	return &Error{Code: code, Span: sp, Msg: msg}
}
