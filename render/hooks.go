package render

import (
	"reflect"

	"github.com/on-the-ground/memo_ive_go/pure"
)

// UseMemo returns the value of compute memoized on deps at this hook position.
func UseMemo[T any](p *Pass, compute func() T, deps pure.Deps) T {
	v, _ := UseMemoE(p, func() (T, error) { return compute(), nil }, deps)
	return v
}

// UseMemoE is the fallible variant of UseMemo. A compute error leaves the slot unchanged.
func UseMemoE[T any](p *Pass, compute func() (T, error), deps pure.Deps) (T, error) {
	slot := p.next(reflect.TypeFor[T]())
	v, err := slot.GetOrCompute(func() (any, error) {
		v, err := compute()
		return v, err
	}, deps)
	if err != nil || v == nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
