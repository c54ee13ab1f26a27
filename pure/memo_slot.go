package pure

// SlotOption configures a MemoSlot.
type SlotOption func(*slotConfig)

type slotConfig struct {
	equal EqualFunc
}

// WithEqual sets the comparator used for dependency elements.
// A nil comparator keeps SameValue.
func WithEqual(eq EqualFunc) SlotOption {
	return func(c *slotConfig) {
		if eq != nil {
			c.equal = eq
		}
	}
}

// MemoSlot holds at most one computed value and the dependencies that produced it.
// The zero value is an empty slot comparing dependencies with SameValue.
type MemoSlot[T any] struct {
	deps      Deps
	value     T
	populated bool
	equal     EqualFunc
}

// NewMemoSlot returns an empty slot. Without options dependencies are compared with SameValue.
func NewMemoSlot[T any](opts ...SlotOption) *MemoSlot[T] {
	cfg := slotConfig{equal: SameValue}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoSlot[T]{equal: cfg.equal}
}

// Resolve returns the stored value when deps equal the stored dependencies,
// otherwise it calls compute and replaces both value and dependencies.
// hit reports whether compute was skipped.
//
// If compute fails (or panics) the slot keeps its previous contents.
func (s *MemoSlot[T]) Resolve(compute func() (T, error), deps Deps) (val T, hit bool, err error) {
	if s.populated && deps != nil && s.deps != nil && s.deps.Equal(deps, s.comparator()) {
		return s.value, true, nil
	}

	v, err := compute()
	if err != nil {
		var zero T
		return zero, false, err
	}

	s.deps = deps.clone()
	s.value = v
	s.populated = true
	return v, false, nil
}

// GetOrCompute is Resolve without the hit flag.
func (s *MemoSlot[T]) GetOrCompute(compute func() (T, error), deps Deps) (T, error) {
	v, _, err := s.Resolve(compute, deps)
	return v, err
}

// Get is the infallible variant of GetOrCompute.
func (s *MemoSlot[T]) Get(compute func() T, deps Deps) T {
	v, _, _ := s.Resolve(func() (T, error) { return compute(), nil }, deps)
	return v
}

// Peek returns the stored value and dependencies without computing anything.
func (s *MemoSlot[T]) Peek() (T, Deps, bool) {
	return s.value, s.deps.clone(), s.populated
}

// Populated reports whether the slot holds a value.
func (s *MemoSlot[T]) Populated() bool { return s.populated }

// Reset empties the slot. The next query always computes.
func (s *MemoSlot[T]) Reset() {
	var zero T
	s.value = zero
	s.deps = nil
	s.populated = false
}

func (s *MemoSlot[T]) comparator() EqualFunc {
	if s.equal == nil {
		return SameValue
	}
	return s.equal
}
