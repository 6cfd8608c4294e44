package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline ends a logical line.
	Newline
	// Indent opens a deeper indentation block.
	Indent
	// Dedent closes one indentation block.
	Dedent

	// Ident represents an identifier token.
	Ident

	KwDef      // def
	KwLambda   // lambda
	KwIf       // if
	KwElif     // elif
	KwElse     // else
	KwWhile    // while
	KwFor      // for
	KwIn       // in
	KwReturn   // return
	KwGlobal   // global
	KwPass     // pass
	KwBreak    // break
	KwContinue // continue
	KwAnd      // and
	KwOr       // or
	KwNot      // not
	KwIs       // is
	KwTrue     // True
	KwFalse    // False
	KwNone     // None

	// Keywords outside the analyzed subset.
	KwClass    // class
	KwImport   // import
	KwFrom     // from
	KwAs       // as
	KwWith     // with
	KwTry      // try
	KwExcept   // except
	KwFinally  // finally
	KwRaise    // raise
	KwDel      // del
	KwAssert   // assert
	KwNonlocal // nonlocal
	KwYield    // yield
	KwAsync    // async
	KwAwait    // await

	// IntLit represents an integer literal (any radix).
	IntLit
	// FloatLit represents a float or imaginary literal.
	FloatLit
	// StringLit represents a string literal including prefix and quotes.
	StringLit

	Plus        // +
	Minus       // -
	Star        // *
	StarStar    // **
	Slash       // /
	SlashSlash  // //
	Percent     // %
	At          // @
	Amp         // &
	Pipe        // |
	Caret       // ^
	Tilde       // ~
	Shl         // <<
	Shr         // >>
	Lt          // <
	Gt          // >
	LtEq        // <=
	GtEq        // >=
	EqEq        // ==
	BangEq      // !=
	Assign      // =
	ColonAssign // :=
	Arrow       // ->

	PlusAssign       // +=
	MinusAssign      // -=
	StarAssign       // *=
	StarStarAssign   // **=
	SlashAssign      // /=
	SlashSlashAssign // //=
	PercentAssign    // %=
	AtAssign         // @=
	AmpAssign        // &=
	PipeAssign       // |=
	CaretAssign      // ^=
	ShlAssign        // <<=
	ShrAssign        // >>=

	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Colon     // :
	Dot       // .
	Semicolon // ;
	Ellipsis  // ...

	kindCount
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Newline: "NEWLINE", Indent: "INDENT", Dedent: "DEDENT",
	Ident: "Ident",
	KwDef: "def", KwLambda: "lambda", KwIf: "if", KwElif: "elif", KwElse: "else",
	KwWhile: "while", KwFor: "for", KwIn: "in", KwReturn: "return", KwGlobal: "global",
	KwPass: "pass", KwBreak: "break", KwContinue: "continue", KwAnd: "and", KwOr: "or",
	KwNot: "not", KwIs: "is", KwTrue: "True", KwFalse: "False", KwNone: "None",
	KwClass: "class", KwImport: "import", KwFrom: "from", KwAs: "as", KwWith: "with",
	KwTry: "try", KwExcept: "except", KwFinally: "finally", KwRaise: "raise", KwDel: "del",
	KwAssert: "assert", KwNonlocal: "nonlocal", KwYield: "yield", KwAsync: "async", KwAwait: "await",
	IntLit: "IntLit", FloatLit: "FloatLit", StringLit: "StringLit",
	Plus: "+", Minus: "-", Star: "*", StarStar: "**", Slash: "/", SlashSlash: "//",
	Percent: "%", At: "@", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", Shl: "<<", Shr: ">>",
	Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=", EqEq: "==", BangEq: "!=", Assign: "=",
	ColonAssign: ":=", Arrow: "->",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", StarStarAssign: "**=",
	SlashAssign: "/=", SlashSlashAssign: "//=", PercentAssign: "%=", AtAssign: "@=",
	AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Comma: ",", Colon: ":", Dot: ".", Semicolon: ";", Ellipsis: "...",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}
