// Package diag holds diagnostics shared by every typeflow phase: codes,
// severities, the Bag container and the Reporter contract used by the
// lexer, parser, scope builder and evaluator.
package diag
