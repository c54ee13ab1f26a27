// Package effects provides the effect-handler core that memo_ive_go builds on.
//
// Side effects such as logging, configuration lookup, goroutine supervision and
// memo slot ownership are delegated to handlers registered in a context.Context.
// Business logic performs an effect; the nearest handler in the context handles it.
//
// # Handler kinds
//
//   - Resumable handlers answer each payload with a result (binding, memo).
//   - Fire-and-forget handlers consume payloads asynchronously (log, concurrency).
//   - Partitionable handlers route payloads by PartitionKey(), so everything keyed
//     by one call site is handled by one worker goroutine, in order.
//
// Handlers are registered via `WithXxxEffectHandler(ctx)` which returns the new
// context and a teardown function. The teardown returns the parent context.
//
// Example:
//
//	func render(ctx context.Context) {
//	    ctx, end := memo.WithEffectHandler(ctx, 1, 1)
//	    defer end()
//
//	    isEven, _ := memo.Effect(ctx, "Counter/isEven", func() bool { return n%2 == 0 }, pure.Deps{n})
//	}
package effects
