package pure

import (
	"math"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Deps is the ordered dependency sequence of a memoized computation.
//
// A nil Deps means the computation has no dependency list and is recomputed on every query.
// An empty, non-nil Deps is computed once.
type Deps []any

// Equatable lets a dependency value decide its own equality.
type Equatable interface {
	Equals(other any) bool
}

// EqualFunc compares two dependency elements.
type EqualFunc func(a, b any) bool

// Equal reports whether d and other have the same length and are pairwise equal under eq.
func (d Deps) Equal(other Deps, eq EqualFunc) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if !eq(d[i], other[i]) {
			return false
		}
	}
	return true
}

func (d Deps) clone() Deps {
	if d == nil {
		return nil
	}
	c := make(Deps, len(d))
	copy(c, d)
	return c
}

// SameValue is the default dependency comparator.
//
//   - Equatable values decide for themselves.
//   - NaN equals NaN, while +0 and -0 are different.
//   - Comparable values use ==.
//   - Slices, maps and channels are equal only when they are the same object.
//   - Functions are never equal unless both are nil.
//   - Any other non-comparable value (e.g. a struct holding a slice) is never equal.
func SameValue(a, b any) bool {
	if e, ok := a.(Equatable); ok {
		return e.Equals(b)
	}
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && sameFloat(x, y)
	case float32:
		y, ok := b.(float32)
		return ok && sameFloat(float64(x), float64(y))
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	default:
		return false
	}
}

func sameFloat(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.IsNaN(x) && math.IsNaN(y)
	}
	if x == 0 && y == 0 {
		return math.Signbit(x) == math.Signbit(y)
	}
	return x == y
}

// DeepEqual compares dependency elements structurally.
// Slices, maps and structs (unexported fields included) are equal when their contents are.
func DeepEqual(a, b any) bool {
	if e, ok := a.(Equatable); ok {
		return e.Equals(b)
	}
	return cmp.Equal(a, b,
		cmpopts.EquateNaNs(),
		cmp.Exporter(func(reflect.Type) bool { return true }),
	)
}
