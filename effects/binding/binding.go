package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/memo_ive_go/effects"
	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
)

// Payload defines a key-based lookup payload.
// Used as input to the Binding effect.
type Payload string

func (bp Payload) PartitionKey() string {
	return string(bp)
}

// ErrKeyNotFound is returned when neither this scope nor any upper scope binds the key.
var ErrKeyNotFound = errors.New("key not found")

// WithEffectHandler registers a resumable, partitionable effect handler for bindings.
//
//   - Accepts a key-value map used for lookups.
//   - Falls back to upper scopes if a key is not found locally.
//   - Returns a context with the effect handler registered.
//   - Returns a teardown function to close the handler; it returns the parent context.
func WithEffectHandler(
	ctx context.Context,
	bufferSize, numWorkers int,
	bindingMap map[string]any,
) (context.Context, func() context.Context) {
	bindingHandler := &bindingHandler{
		bindingMap: normalizeBindingMap(bindingMap),
	}
	return effects.WithResumablePartitionableEffectHandler[Payload, any](
		ctx,
		effectmodel.NewEffectScopeConfig(bufferSize, numWorkers),
		effectmodel.EffectBinding,
		bindingHandler.handle,
	)
}

// Effect performs a key-based lookup using the Binding effect handler.
//
// Returns either the value found or an error if the key is not found and no upper scope provides it.
func Effect(ctx context.Context, key string) (val any, err error) {
	resultCh := effects.PerformResumableEffect[Payload, any](ctx, effectmodel.EffectBinding, Payload(key))
	select {
	case res, ok := <-resultCh:
		if ok {
			val = res.Value
			err = res.Err
			return
		}
	case <-ctx.Done():
	}
	err = ctx.Err()
	if err == nil {
		err = fmt.Errorf("binding handler closed while looking up %q", key)
	}
	return
}

func normalizeBindingMap(bm map[string]any) map[string]any {
	if bm == nil {
		bm = make(map[string]any)
	}
	return bm
}

// delegateBindingEffect is an internal helper for performing the binding effect directly.
func delegateBindingEffect(upperCtx context.Context, key string) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok && errors.Is(rErr, effects.ErrNoEffectHandler) {
				res = nil
				err = fmt.Errorf("%w: %s", ErrKeyNotFound, key)
				return
			}
			panic(r)
		}
	}()

	// Delegate the effect to the upper handler
	return Effect(upperCtx, key)
}

type bindingHandler struct {
	bindingMap map[string]any
}

// handle looks up the key in the local bindingMap.
// - If found: returns the value.
// - If not found: attempts to delegate the effect to an upper handler (if available).
// - Otherwise: returns a key-not-found error.
func (bh bindingHandler) handle(ctx context.Context, payload Payload) (any, error) {
	key := string(payload)
	v, ok := bh.bindingMap[key]
	if !ok {
		return delegateBindingEffect(ctx, key)
	}
	return v, nil
}
