package memo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/on-the-ground/memo_ive_go/effects"
	"github.com/on-the-ground/memo_ive_go/effects/binding"
	"github.com/on-the-ground/memo_ive_go/effects/configkeys"
	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
	"github.com/on-the-ground/memo_ive_go/effects/log"
	"github.com/on-the-ground/memo_ive_go/pure"
	"github.com/on-the-ground/memo_ive_go/shared/helper"
)

var (
	// ErrComputePanicked wraps a panic raised by a compute function. The slot is left untouched.
	ErrComputePanicked = errors.New("memo compute panicked")

	// ErrHandlerClosed is returned when the memo handler was torn down before answering.
	ErrHandlerClosed = errors.New("memo handler closed")
)

const eventBufferPerWorker = 64

// WithEffectHandler registers a resumable, partitionable memo effect handler.
//
// Slots live in an arena keyed by CallSite. Payloads are partitioned by call site,
// so a given slot is only ever read and written by one worker goroutine and
// needs no locking of its own.
//
// Compute functions run on that worker. A compute must not perform memo effects
// against the same handler: a site hashed to the same worker would deadlock.
//
// The teardown destroys every slot and returns the parent context.
func WithEffectHandler(
	ctx context.Context,
	bufferSize, numWorkers int,
	opts ...pure.SlotOption,
) (context.Context, func() context.Context) {
	config := effectmodel.NewEffectScopeConfig(bufferSize, numWorkers)
	h := &memoHandler{
		slots: &sync.Map{},
		sink:  make(chan TimeBoundedEvent, eventBufferPerWorker*config.NumWorkers),
		opts:  opts,
	}
	return effects.WithResumablePartitionableEffectHandler(
		ctx,
		config,
		effectmodel.EffectMemo,
		h.handle,
		h.clear,
	)
}

// WithConfiguredEffectHandler is WithEffectHandler with buffer size, worker count
// and equality read from the binding effect. Missing keys fall back to 1, 1 and SameValue.
// Explicit opts take precedence over the configured equality.
func WithConfiguredEffectHandler(
	ctx context.Context,
	opts ...pure.SlotOption,
) (context.Context, func() context.Context) {
	bufferSize := binding.GetOrDefault(ctx, configkeys.ConfigEffectMemoHandlerBufferSize, 1)
	numWorkers := binding.GetOrDefault(ctx, configkeys.ConfigEffectMemoHandlerNumWorkers, 1)

	var configured []pure.SlotOption
	switch equality := binding.GetOrDefault(ctx, configkeys.ConfigEffectMemoEquality, "same_value"); equality {
	case "deep":
		configured = append(configured, pure.WithEqual(pure.DeepEqual))
	case "same_value":
	default:
		if effects.HasEffectHandler(ctx, effectmodel.EffectLog) {
			log.Effect(ctx, log.LogWarn, "unknown memo equality, using same_value", map[string]interface{}{
				"equality": equality,
			})
		}
	}
	return WithEffectHandler(ctx, bufferSize, numWorkers, append(configured, opts...)...)
}

// Effect returns the memoized value of site under deps, calling compute only
// when deps differ from the ones that produced the stored value.
func Effect[T any](ctx context.Context, site CallSite, compute func() T, deps pure.Deps) (T, error) {
	return EffectE(ctx, site, func() (T, error) { return compute(), nil }, deps)
}

// EffectE is the fallible variant of Effect. A compute error is returned as is
// and the slot keeps its previous value and dependencies.
func EffectE[T any](ctx context.Context, site CallSite, compute func() (T, error), deps pure.Deps) (T, error) {
	res, err := effect(ctx, query{
		Site: site,
		Deps: deps,
		Compute: func() (any, error) {
			v, err := compute()
			return v, err
		},
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if res == nil {
		var zero T
		return zero, nil
	}
	return helper.GetTypedValueOf[T](func() (any, error) { return res, nil })
}

// EffectRelease destroys the slot owned by site. It reports whether a slot existed.
func EffectRelease(ctx context.Context, site CallSite) (bool, error) {
	return helper.GetTypedValueOf[bool](func() (any, error) {
		return effect(ctx, release{Site: site})
	})
}

// EffectSource returns the channel slot events are published on.
// Events are dropped when nobody drains the channel.
func EffectSource(ctx context.Context) (<-chan TimeBoundedEvent, error) {
	return helper.GetTypedValueOf[<-chan TimeBoundedEvent](func() (any, error) {
		return effect(ctx, source{})
	})
}

func effect(ctx context.Context, payload Payload) (val any, err error) {
	resultCh := effects.PerformResumableEffect[Payload, any](ctx, effectmodel.EffectMemo, payload)
	select {
	case res, ok := <-resultCh:
		if ok {
			return res.Value, res.Err
		}
		return nil, ErrHandlerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// memoHandler owns the slot arena of one handler scope.
type memoHandler struct {
	slots *sync.Map // CallSite -> *pure.MemoSlot[any]
	sink  chan TimeBoundedEvent
	opts  []pure.SlotOption
}

func (h *memoHandler) slotOf(site CallSite) *pure.MemoSlot[any] {
	if v, ok := h.slots.Load(site); ok {
		return v.(*pure.MemoSlot[any])
	}
	v, _ := h.slots.LoadOrStore(site, pure.NewMemoSlot[any](h.opts...))
	return v.(*pure.MemoSlot[any])
}

func (h *memoHandler) handle(ctx context.Context, payload Payload) (any, error) {
	switch payload := payload.(type) {

	case query:
		start := time.Now()
		v, hit, err := resolve(h.slotOf(payload.Site), payload)
		span := effects.Since(start)

		switch {
		case err != nil:
			h.publish(Event{Site: payload.Site, Kind: EventFailed, Deps: payload.Deps, Err: err}, span)
			logEffect(ctx, log.LogError, "memo compute failed", map[string]interface{}{
				"site": payload.Site,
				"deps": payload.Deps,
				"err":  err,
			})
		case hit:
			h.publish(Event{Site: payload.Site, Kind: EventHit, Deps: payload.Deps}, span)
		default:
			h.publish(Event{Site: payload.Site, Kind: EventMiss, Deps: payload.Deps}, span)
			logEffect(ctx, log.LogDebug, "memo recomputed", map[string]interface{}{
				"site":     payload.Site,
				"deps":     payload.Deps,
				"duration": span.Duration(),
			})
		}
		return v, err

	case release:
		_, existed := h.slots.LoadAndDelete(payload.Site)
		if existed {
			h.publish(Event{Site: payload.Site, Kind: EventReleased}, effects.Now())
		}
		return existed, nil

	case source:
		return (<-chan TimeBoundedEvent)(h.sink), nil

	default:
		// unreachable while Payload stays sealed
		panic(fmt.Errorf("invalid memo operation type: %T", payload))
	}
}

// resolve runs the slot query, turning a compute panic into ErrComputePanicked.
func resolve(slot *pure.MemoSlot[any], q query) (v any, hit bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, hit = nil, false
			err = fmt.Errorf("%w: site %s: %v", ErrComputePanicked, q.Site, r)
		}
	}()
	return slot.Resolve(q.Compute, q.Deps)
}

func (h *memoHandler) publish(ev Event, span effects.TimeSpan) {
	select {
	case h.sink <- TimeBoundedEvent{Event: ev, TimeSpan: span}:
	default:
	}
}

// clear drops every slot; their call sites are torn down with the handler.
func (h *memoHandler) clear() {
	h.slots.Range(func(k, _ any) bool {
		h.slots.Delete(k)
		return true
	})
}

func logEffect(ctx context.Context, level log.LogLevel, msg string, fields map[string]interface{}) {
	if !effects.HasEffectHandler(ctx, effectmodel.EffectLog) {
		return
	}
	log.Effect(ctx, level, msg, fields)
}
