package flow

import (
	"fmt"
	"strings"

	"typeflow/internal/diag"
	"typeflow/internal/types"
)

// DefaultMaxCallDepth bounds nested fresh function analyses.
const DefaultMaxCallDepth = 512

// Policy decides what reading an unassigned variable means.
type Policy uint8

const (
	// Strict aborts the run on a read of an absent binding.
	Strict Policy = iota
	// Lenient treats the read as contributing no kinds.
	Lenient
)

func (p Policy) String() string {
	if p == Lenient {
		return "lenient"
	}
	return "strict"
}

// ParsePolicy converts a config or flag value into Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("invalid undefined policy %q (expected: strict|lenient)", s)
	}
}

// Options configure one analysis run.
type Options struct {
	Undefined    Policy
	MaxCallDepth int           // 0 means DefaultMaxCallDepth
	Ops          types.OpTyper // nil means types.LeftOperand
	// Reporter receives informational notes (re-entrant calls, calls
	// without function targets). Fatal failures are returned as errors.
	Reporter diag.Reporter
}

func (o Options) withDefaults() Options {
	if o.MaxCallDepth <= 0 {
		o.MaxCallDepth = DefaultMaxCallDepth
	}
	if o.Ops == nil {
		o.Ops = types.LeftOperand{}
	}
	if o.Reporter == nil {
		o.Reporter = diag.NopReporter{}
	}
	return o
}
