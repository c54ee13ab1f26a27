package pure_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/on-the-ground/memo_ive_go/pure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoSlot_HitSkipsCompute(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	count := 0
	fn := func() int {
		count++
		return count * 10
	}

	assert.Equal(t, 10, slot.Get(fn, pure.Deps{"a"}))
	assert.Equal(t, 10, slot.Get(fn, pure.Deps{"a"})) // cached
	assert.Equal(t, 1, count)
}

func TestMemoSlot_MissOnChange(t *testing.T) {
	slot := pure.NewMemoSlot[string]()
	count := 0
	fn := func(s string) func() string {
		return func() string {
			count++
			return s
		}
	}

	assert.Equal(t, "a", slot.Get(fn("a"), pure.Deps{1}))
	assert.Equal(t, "b", slot.Get(fn("b"), pure.Deps{2}))
	assert.Equal(t, 2, count)

	// the second value is now cached for [2]
	assert.Equal(t, "b", slot.Get(fn("c"), pure.Deps{2}))
	assert.Equal(t, 2, count)
}

func TestMemoSlot_OrderSensitive(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	count := 0
	fn := func() int {
		count++
		return count
	}

	slot.Get(fn, pure.Deps{"a", "b"})
	slot.Get(fn, pure.Deps{"b", "a"})
	assert.Equal(t, 2, count)
}

func TestMemoSlot_FirstCallAlwaysComputes(t *testing.T) {
	for name, deps := range map[string]pure.Deps{
		"nil":   nil,
		"empty": {},
		"zero":  {0},
		"many":  {1, "x", 2.5, true},
	} {
		t.Run(name, func(t *testing.T) {
			slot := pure.NewMemoSlot[int]()
			count := 0
			slot.Get(func() int { count++; return 7 }, deps)
			assert.Equal(t, 1, count)
			assert.True(t, slot.Populated())
		})
	}
}

func TestMemoSlot_EndToEnd(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	calls := 0

	v := slot.Get(func() int { calls++; return 42 }, pure.Deps{1})
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	v = slot.Get(func() int { calls++; return 99 }, pure.Deps{1})
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	v = slot.Get(func() int { calls++; return 99 }, pure.Deps{2})
	assert.Equal(t, 99, v)
	assert.Equal(t, 2, calls)
}

func TestMemoSlot_NoUpdateOnFailure(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	errBoom := errors.New("boom")

	v, err := slot.GetOrCompute(func() (int, error) { return 1, nil }, pure.Deps{"a"})
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = slot.GetOrCompute(func() (int, error) { return 2, errBoom }, pure.Deps{"b"})
	assert.ErrorIs(t, err, errBoom)

	val, deps, ok := slot.Peek()
	assert.True(t, ok)
	assert.Equal(t, 1, val)
	assert.Equal(t, pure.Deps{"a"}, deps)

	v, err = slot.GetOrCompute(func() (int, error) {
		t.Fatal("compute must not run on a hit")
		return 0, nil
	}, pure.Deps{"a"})
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestMemoSlot_FailureOnEmptySlotStaysEmpty(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	_, err := slot.GetOrCompute(func() (int, error) { return 0, errors.New("nope") }, pure.Deps{1})
	assert.Error(t, err)
	assert.False(t, slot.Populated())
}

func TestMemoSlot_PanicLeavesSlotUnchanged(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	slot.Get(func() int { return 5 }, pure.Deps{1})

	assert.Panics(t, func() {
		slot.Get(func() int { panic("compute exploded") }, pure.Deps{2})
	})

	v, deps, ok := slot.Peek()
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, pure.Deps{1}, deps)
}

func TestMemoSlot_NilDepsAlwaysRecompute(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	count := 0
	for i := 0; i < 3; i++ {
		slot.Get(func() int { count++; return count }, nil)
	}
	assert.Equal(t, 3, count)
}

func TestMemoSlot_NilThenEmptyDepsRecomputes(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	count := 0
	fn := func() int { count++; return count }

	slot.Get(fn, nil)
	slot.Get(fn, pure.Deps{})
	slot.Get(fn, pure.Deps{})
	assert.Equal(t, 2, count)
}

func TestMemoSlot_EmptyDepsComputeOnce(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	count := 0
	for i := 0; i < 3; i++ {
		slot.Get(func() int { count++; return count }, pure.Deps{})
	}
	assert.Equal(t, 1, count)
}

func TestMemoSlot_LengthMismatchRecomputes(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	count := 0
	fn := func() int { count++; return count }

	slot.Get(fn, pure.Deps{1})
	slot.Get(fn, pure.Deps{1, 2})
	assert.Equal(t, 2, count)
}

func TestMemoSlot_StoredDepsAreCopied(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	count := 0
	fn := func() int { count++; return count }

	deps := pure.Deps{1}
	slot.Get(fn, deps)
	deps[0] = 2
	_, stored, _ := slot.Peek()
	if diff := cmp.Diff(pure.Deps{1}, stored); diff != "" {
		t.Errorf("stored deps mismatch (-want +got):\n%s", diff)
	}

	slot.Get(fn, pure.Deps{2})
	assert.Equal(t, 2, count)
}

func TestMemoSlot_Reset(t *testing.T) {
	slot := pure.NewMemoSlot[int]()
	count := 0
	fn := func() int { count++; return count }

	slot.Get(fn, pure.Deps{1})
	slot.Reset()
	assert.False(t, slot.Populated())

	assert.Equal(t, 2, slot.Get(fn, pure.Deps{1}))
}

func TestMemoSlot_ResolveReportsHit(t *testing.T) {
	var slot pure.MemoSlot[string] // zero value is usable

	_, hit, err := slot.Resolve(func() (string, error) { return "x", nil }, pure.Deps{1})
	require.NoError(t, err)
	assert.False(t, hit)

	v, hit, err := slot.Resolve(func() (string, error) { return "y", nil }, pure.Deps{1})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "x", v)
}

func TestMemoSlot_WithEqual(t *testing.T) {
	slot := pure.NewMemoSlot[int](pure.WithEqual(pure.DeepEqual))
	count := 0
	fn := func() int { count++; return count }

	slot.Get(fn, pure.Deps{[]int{1, 2}})
	slot.Get(fn, pure.Deps{[]int{1, 2}}) // new slice, same contents
	assert.Equal(t, 1, count)

	identity := pure.NewMemoSlot[int]()
	identity.Get(fn, pure.Deps{[]int{1, 2}})
	identity.Get(fn, pure.Deps{[]int{1, 2}})
	assert.Equal(t, 3, count)
}
