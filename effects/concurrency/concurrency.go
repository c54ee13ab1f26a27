package concurrency

import (
	"context"
	"sync"

	"github.com/on-the-ground/memo_ive_go/effects"
	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
	"github.com/on-the-ground/memo_ive_go/effects/log"
)

// WithEffectHandler installs a fire-and-forget concurrency effect handler.
//
// It allows `Effect(ctx, fns...)` to spawn goroutines under a managed scope.
//
//   - Children are cancelled when the parent context is cancelled.
//   - The teardown blocks until every child has returned.
//   - Worker count is fixed to 1 (non-partitioned).
//   - Requires a log effect handler in ctx.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
) (context.Context, func() context.Context) {
	sv := &supervisor{
		doneCh: make(chan struct{}),
	}
	sv.watchParentCancel(ctx)

	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectConcurrency,
		sv.spawnConcurrentChildren,
		func() {
			sv.waitChildren(ctx)
			close(sv.doneCh)
		},
	)
}

// Effect spawns each function in its own goroutine under the nearest concurrency handler.
func Effect(ctx context.Context, fns ...func(context.Context)) {
	effects.FireAndForgetEffect[Payload](ctx, effectmodel.EffectConcurrency, fns)
}

type Payload []func(context.Context)

// supervisor tracks the children spawned by one concurrency handler.
// It propagates parent cancellation to every child and joins them on teardown.
type supervisor struct {
	wg              sync.WaitGroup
	mu              sync.Mutex
	childrenCancels []context.CancelFunc
	doneCh          chan struct{}
}

// watchParentCancel cancels every child once the parent context is done.
func (s *supervisor) watchParentCancel(parentContext context.Context) {
	ready := make(chan struct{})
	go func() {
		close(ready)
		select {
		case <-parentContext.Done():
			log.Effect(parentContext, log.LogInfo, "context cancelled, waiting for all routines to finish", nil)
			s.cancelChildren()
		case <-s.doneCh:
		}
	}()
	<-ready
}

func (s *supervisor) appendCancel(cancelFn context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.childrenCancels = append(s.childrenCancels, cancelFn)
}

func (s *supervisor) cancelChildren() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancelFn := range s.childrenCancels {
		cancelFn()
	}
}

// spawnConcurrentChildren starts each function in its own goroutine with its own context.
// Panics in a child are recovered and logged.
func (s *supervisor) spawnConcurrentChildren(
	parentContext context.Context,
	functions Payload,
) {
	ready := sync.WaitGroup{}

	for _, fn := range functions {
		childCtx, cancel := context.WithCancel(context.Background())
		s.appendCancel(cancel)
		s.wg.Add(1)
		ready.Add(1)
		go func(f func(context.Context), ctx context.Context) {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Effect(parentContext, log.LogError, "panic in child routine", map[string]interface{}{
						"error": r,
					})
				}
			}()
			ready.Done()
			f(ctx)
		}(fn, childCtx)
	}

	// Wait until all child goroutines have been started before returning
	ready.Wait()
}

// waitChildren blocks until all child goroutines complete.
func (s *supervisor) waitChildren(ctx context.Context) {
	log.Effect(ctx, log.LogInfo, "waiting for all routines to finish", nil)
	s.wg.Wait()
	s.cancelChildren()
	log.Effect(ctx, log.LogInfo, "all routines finished", nil)
}
