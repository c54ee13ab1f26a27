package concurrency_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/memo_ive_go/effects/concurrency"
	"github.com/on-the-ground/memo_ive_go/effects/log"

	"github.com/stretchr/testify/assert"
)

func TestConcurrencyEffect_AllChildrenRunAndComplete(t *testing.T) {
	ctx, endOfLogHandler := log.WithTestEffectHandler(context.Background())
	defer endOfLogHandler()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctx, endOfConcurrencyHandler := concurrency.WithEffectHandler(ctx, 10)
	defer endOfConcurrencyHandler()

	var mu sync.Mutex
	var ran []int
	var wg sync.WaitGroup
	wg.Add(3)

	f := func(i int) func(context.Context) {
		return func(ctx context.Context) {
			defer wg.Done()
			mu.Lock()
			ran = append(ran, i)
			mu.Unlock()
		}
	}

	concurrency.Effect(ctx, f(1), f(2), f(3))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	sort.Ints(ran)
	assert.Equal(t, []int{1, 2, 3}, ran)
}

func TestConcurrencyEffect_ContextCancelPropagatesToChildren(t *testing.T) {
	ctx, endOfLogHandler := log.WithTestEffectHandler(context.Background())
	defer endOfLogHandler()

	ctx, cancel := context.WithCancel(ctx)

	ctx, endOfConcurrencyHandler := concurrency.WithEffectHandler(ctx, 10)
	defer endOfConcurrencyHandler()

	blocked := make(chan struct{})
	unblocked := make(chan struct{})

	concurrency.Effect(ctx,
		func(ctx context.Context) {
			blocked <- struct{}{}
			<-ctx.Done()
			unblocked <- struct{}{}
		},
	)

	<-blocked
	cancel()

	select {
	case <-unblocked:
	case <-time.After(1 * time.Second):
		t.Fatal("expected child to unblock on context cancel")
	}
}

func TestConcurrencyEffect_HandlesPanicsGracefully(t *testing.T) {
	ctx, endOfLogHandler := log.WithTestEffectHandler(context.Background())
	defer endOfLogHandler()

	ctx, endOfConcurrencyHandler := concurrency.WithEffectHandler(ctx, 10)
	defer endOfConcurrencyHandler()

	done := make(chan struct{})
	concurrency.Effect(ctx,
		func(ctx context.Context) {
			panic("child boom")
		},
		func(ctx context.Context) {
			done <- struct{}{}
		},
	)

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("expected non-panicking goroutine to finish")
	}
}

func TestConcurrencyEffect_TeardownWaitsForChildren(t *testing.T) {
	ctx, endOfLogHandler := log.WithTestEffectHandler(context.Background())
	defer endOfLogHandler()

	ctx, endOfConcurrencyHandler := concurrency.WithEffectHandler(ctx, 10)

	var mu sync.Mutex
	finished := 0
	started := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		concurrency.Effect(ctx, func(ctx context.Context) {
			started <- struct{}{}
			time.Sleep(50 * time.Millisecond)
			mu.Lock()
			finished++
			mu.Unlock()
		})
	}
	for i := 0; i < 5; i++ {
		<-started
	}

	endOfConcurrencyHandler()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, finished)
}
