package binding

import (
	"context"

	"github.com/on-the-ground/memo_ive_go/effects"
	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
	"github.com/on-the-ground/memo_ive_go/shared/helper"
)

// GetFromBindingEffect fetches a typed value from the Binding effect using the provided key.
// Returns a zero value and error if the key is not found or the type is mismatched.
func GetFromBindingEffect[T any](ctx context.Context, key string) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// MustGetFromBindingEffect is the panic-on-failure variant of GetFromBindingEffect.
// It panics if the key is missing or the type doesn't match.
func MustGetFromBindingEffect[T any](ctx context.Context, key string) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// GetOrDefault returns the bound value for key, or fallback when no binding
// handler is registered, the key is unbound, or the value has another type.
func GetOrDefault[T any](ctx context.Context, key string, fallback T) T {
	if !effects.HasEffectHandler(ctx, effectmodel.EffectBinding) {
		return fallback
	}
	v, err := GetFromBindingEffect[T](ctx, key)
	if err != nil {
		return fallback
	}
	return v
}
