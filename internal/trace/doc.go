// Package trace records what the analyzer is doing: driver phases, per-file
// runs and, at debug level, every function analysis and cache lookup.
//
// Enable tracing from the command line:
//
//	typeflow analyze --trace=- --trace-level=detail prog.py
//
// Tracers:
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// Levels map onto event scopes: phase shows driver and pass boundaries,
// detail adds per-file events, debug adds node events from the engine
// (function analyses, cache hits, re-entrant calls).
//
// The tracer travels through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
