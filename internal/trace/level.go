package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level admits scopes up to a ceiling.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase  // driver and pass boundaries
	LevelDetail // plus one span per file
	LevelDebug  // plus evaluator nodes: calls, cache hits, merges
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag value; "" means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(name, s) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope pass this level. LevelError
// keeps pass boundaries too, so a ring dump after a failure has context.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelError, LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}
