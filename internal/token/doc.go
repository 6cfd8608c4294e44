// Package token defines lexical token kinds for the analyzed Python subset.
// Invariants:
//   - Token.Text is a slice of the original source (no copies), except for
//     synthetic NEWLINE/INDENT/DEDENT tokens whose Text is empty.
//   - Token.Span matches Text exactly.
//   - Comments never appear in the main token stream; they are attached to
//     the next significant token as leading Trivia.
//   - Keywords the analyzer does not support (class, import, ...) still get
//     their own kinds so the parser can name them precisely.
package token
