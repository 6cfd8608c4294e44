package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexInconsistentDedent Code = 1004
	LexTabsAndSpaces      Code = 1005
	LexUnbalancedBracket  Code = 1006
	LexBadContinuation    Code = 1007
	LexTokenTooLong       Code = 1008

	// Синтаксические
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectExpression Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectColon      Code = 2004
	SynExpectNewline    Code = 2005
	SynExpectIndent     Code = 2006
	SynUnclosedParen    Code = 2007
	SynInvalidTarget    Code = 2008
	SynForMissingIn     Code = 2009
	SynElseWithoutIf    Code = 2010
	SynBadLiteral       Code = 2011
	SynUnexpectedIndent Code = 2012
	SynExpectParamList  Code = 2013
	SynDuplicateParam   Code = 2014

	// Анализ
	AnaInfo           Code = 3000
	AnaUnsupported    Code = 3001
	AnaNameError      Code = 3002
	AnaUndefined      Code = 3003
	AnaRecursionDepth Code = 3004
	AnaReentrantCall  Code = 3005
	AnaGlobalParam    Code = 3006
	AnaUnreachable    Code = 3007
	AnaNoCallee       Code = 3008
	AnaArity          Code = 3009

	// I/O
	IOLoadFileError Code = 4001

	// Конфигурация
	CfgInvalid Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string",
	LexBadNumber:          "Bad number",
	LexInconsistentDedent: "Dedent does not match any outer indentation level",
	LexTabsAndSpaces:      "Inconsistent use of tabs and spaces in indentation",
	LexUnbalancedBracket:  "Unbalanced bracket",
	LexBadContinuation:    "Unexpected character after line continuation",
	LexTokenTooLong:       "Token too long",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectExpression:   "Expect expression",
	SynExpectIdentifier:   "Expect identifier",
	SynExpectColon:        "Expect colon",
	SynExpectNewline:      "Expect end of line",
	SynExpectIndent:       "Expect an indented block",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynInvalidTarget:      "Invalid assignment target",
	SynForMissingIn:       "Missing 'in' in for loop",
	SynElseWithoutIf:      "'else' or 'elif' without matching statement",
	SynBadLiteral:         "Malformed literal",
	SynUnexpectedIndent:   "Unexpected indent",
	SynExpectParamList:    "Expect parameter list",
	SynDuplicateParam:     "Duplicate parameter name",
	AnaInfo:               "Analysis information",
	AnaUnsupported:        "Unsupported construct",
	AnaNameError:          "Name cannot be resolved",
	AnaUndefined:          "Variable read before assignment",
	AnaRecursionDepth:     "Call depth limit exceeded",
	AnaReentrantCall:      "Re-entrant call reuses in-progress analysis",
	AnaGlobalParam:        "Parameter declared global",
	AnaUnreachable:        "Statement after a jump",
	AnaNoCallee:           "Call target set has no functions",
	AnaArity:              "Argument count does not match parameters",
	IOLoadFileError:       "Failed to load file",
	CfgInvalid:            "Invalid configuration",
	ObsInfo:               "Observability information",
	ObsTimings:            "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
