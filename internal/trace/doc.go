// Package trace records what the optimizer did and how long it took.
//
// Tracing is off by default. The CLI enables it with:
//
//	localopt opt --trace=- --trace-level=debug prog.ir
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: nothing is streamed; ring buffers are dumped on failure
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-function spans
//   - LevelDebug: every individual rewrite
//
// # Scopes
//
//   - ScopeDriver: file loading, caching, output
//   - ScopePass: one optimizer run over a module
//   - ScopeFunc: one function inside a run
//   - ScopeRewrite: a single rule firing on an instruction
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "localopt", parentID)
//	defer span.End("")
package trace
