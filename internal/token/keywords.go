package token

var keywords = map[string]Kind{
	"def":      KwDef,
	"lambda":   KwLambda,
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"return":   KwReturn,
	"global":   KwGlobal,
	"pass":     KwPass,
	"break":    KwBreak,
	"continue": KwContinue,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
	"is":       KwIs,
	"True":     KwTrue,
	"False":    KwFalse,
	"None":     KwNone,
	"class":    KwClass,
	"import":   KwImport,
	"from":     KwFrom,
	"as":       KwAs,
	"with":     KwWith,
	"try":      KwTry,
	"except":   KwExcept,
	"finally":  KwFinally,
	"raise":    KwRaise,
	"del":      KwDel,
	"assert":   KwAssert,
	"nonlocal": KwNonlocal,
	"yield":    KwYield,
	"async":    KwAsync,
	"await":    KwAwait,
}

// LookupKeyword reports whether ident is a reserved word. Python keywords are
// case-sensitive: "true" is an identifier, "True" is not.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
