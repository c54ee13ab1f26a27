// Package pure provides a single-slot memoization primitive keyed by a dependency list.
//
// MemoSlot is not a cache in the general sense.
// It remembers exactly one value and the dependency sequence that produced it,
// and it *forces the caller to ask*:
//
//	→ "Which inputs does this computation really depend on?"
//	→ "Is it safe to skip calling it when they did not change?"
//
// A slot is owned by one call site. It is created empty, filled by the first
// query, and refreshed whenever the dependency sequence changes element-wise.
// When the dependencies are equal the stored value is returned and the compute
// function is not called at all.
//
// Equality of dependency elements is pluggable (see SameValue and DeepEqual).
//
// WARNING: A slot is not safe for concurrent use. Confine it to its owner, or use
// the memo effect handler which partitions slots per call site.
package pure
