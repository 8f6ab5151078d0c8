// Package trace carries structured diagnostic logging for prosecheck runs.
//
// Tracers are threaded through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "flatten", 0)
//	defer span.End("")
//
// Implementations: Nop, StreamTracer (text or NDJSON), RingTracer (last N
// events, dumpable) and MultiTracer.
//
// Levels gate scopes: phase shows driver and pass events, detail adds
// per-root events, debug adds per-node events. Warnings (Warn) are emitted at
// every level except off.
package trace
