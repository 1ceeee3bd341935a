// Package trace records what vmfkit spends time on.
//
// Events are spans (begin/end pairs) and points, tagged with a Scope that
// says how coarse they are. A Level picks which scopes are written:
//
//   - LevelOff: nothing
//   - LevelError: only failures reported through Point
//   - LevelPhase: driver and pass spans (load, tree, extract)
//   - LevelDetail: per-file spans
//   - LevelDebug: per-block extraction as well
//
// Enable tracing from the command line:
//
//	vmfkit parse --trace=- --trace-level=detail maps/
//
// The tracer travels in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "tree", 0)
//	defer span.End("")
package trace
