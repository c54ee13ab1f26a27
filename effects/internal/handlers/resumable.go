package handlers

import (
	"context"
	"errors"

	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
)

func NewPartitionableResumableHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancelFn := context.WithCancel(ctx)
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			NewPartitionedQueue(ctx, config.NumWorkers, config.BufferSize, resume(handleFn)),
			teardown,
			cancelFn,
			abandon[P, R],
		),
	}
}

// resume adapts a handle function to the message loop: the result is sent back
// on the message's resume channel, which is then closed.
func resume[P any, R any](
	handleFn func(context.Context, P) (R, error),
) func(context.Context, ResumableEffectMessage[P, R]) {
	return func(ctx context.Context, msg ResumableEffectMessage[P, R]) {
		select {
		case <-ctx.Done():
		case msg.ResumeCh <- ResumableResultFrom(handleFn(ctx, msg.Payload)):
		}
		close(msg.ResumeCh)
	}
}

// abandon answers a message the workers never picked up.
func abandon[P any, R any](msg ResumableEffectMessage[P, R]) {
	close(msg.ResumeCh)
}

type ResumableHandler[P any, R any] struct {
	*effectScope[ResumableEffectMessage[P, R]]
}

// PerformEffect enqueues payload and returns the channel its result arrives on.
// If the handler is closed, before or after the payload was queued, the
// returned channel is closed without a value.
func (rh ResumableHandler[P, R]) PerformEffect(ctx context.Context, payload P) <-chan ResumableResult[R] {
	// buffered to prevent blocking if handler sends without waiting
	resumeCh := make(chan ResumableResult[R], 1)

	err := rh.send(ctx, ResumableEffectMessage[P, R]{
		Payload:  payload,
		ResumeCh: resumeCh,
	})
	if errors.Is(err, errScopeClosed) {
		close(resumeCh)
	}
	return resumeCh
}

// ResumableResult represents the result of handled effects.
type ResumableResult[T any] struct {
	Value T
	Err   error
}

func ResumableResultFrom[R any](res R, err error) ResumableResult[R] {
	return ResumableResult[R]{Value: res, Err: err}
}

var _ effectmodel.Partitionable = ResumableEffectMessage[any, any]{}

type ResumableEffectMessage[P any, R any] struct {
	Payload  P
	ResumeCh chan ResumableResult[R]
}

func (rem ResumableEffectMessage[P, R]) PartitionKey() string {
	if p, ok := any(rem.Payload).(effectmodel.Partitionable); ok {
		return p.PartitionKey()
	}
	return ""
}
