package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var errScopeClosed = errors.New("effect scope closed")

// effectScope owns a dispatcher and the teardown that stops it.
//
// Close is idempotent and synchronous: when it returns the workers have exited
// and every message still queued has been handed to drop. A send racing with
// Close either lands before the queue is drained or is refused.
type effectScope[T any] struct {
	EffectId   string
	dispatcher WorkerDispatcher[T]
	teardown   func()
	cancelFn   context.CancelFunc
	drop       func(T)

	mu        sync.RWMutex
	closed    bool
	closing   chan struct{}
	closeOnce sync.Once
}

func newEffectScope[T any](
	dispatcher WorkerDispatcher[T],
	teardown func(),
	cancelFn context.CancelFunc,
	drop func(T),
) *effectScope[T] {
	return &effectScope[T]{
		EffectId:   uuid.New().String(),
		dispatcher: dispatcher,
		teardown:   teardown,
		cancelFn:   cancelFn,
		drop:       drop,
		closing:    make(chan struct{}),
	}
}

func (es *effectScope[T]) Close() {
	es.closeOnce.Do(func() {
		// unblocks senders waiting on a full queue
		close(es.closing)
		es.mu.Lock()
		es.closed = true
		es.mu.Unlock()

		es.teardown()
		es.cancelFn()
		es.dispatcher.Stop(es.drop)
	})
}

// send enqueues msg on its worker. It fails with errScopeClosed once Close has
// started, or with ctx.Err() when ctx ends first.
func (es *effectScope[T]) send(ctx context.Context, msg T) error {
	es.mu.RLock()
	defer es.mu.RUnlock()
	if es.closed {
		return errScopeClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-es.closing:
		return errScopeClosed
	case es.dispatcher.GetChannelOf(msg) <- msg:
		return nil
	}
}
