// Package flow is the abstract interpreter. It walks a program once, top to
// bottom, carrying an environment that maps every binding to the set of kinds
// it may hold, and analyzes each function lazily per argument signature.
//
// Branches (if, while, for) run both sides on clones of the environment and
// join them; a loop body is analyzed exactly once. Function results are
// memoized by signature: a second call with equal argument sets never
// re-analyzes the body. A call that re-enters a signature still being
// analyzed sees the partial return set, which bounds recursion.
package flow
